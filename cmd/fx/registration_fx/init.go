package registration_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AlexeiFed/waxhands-sub002/internal/api/controllers"
	"github.com/AlexeiFed/waxhands-sub002/internal/repositories"
	"github.com/AlexeiFed/waxhands-sub002/internal/services"
)

var Module = fx.Provide(
	provideWorkshopRepo, provideCatalogRepo, provideParticipantRepo,
	provideInvoiceRepo, provideRegistrationRepo,
	provideRegistrationService, provideRegistrationController,
)

func provideWorkshopRepo(db *gorm.DB) repositories.IWorkshopRepository {
	return repositories.NewWorkshopRepository(db)
}

func provideCatalogRepo(db *gorm.DB) repositories.ICatalogRepository {
	return repositories.NewCatalogRepository(db)
}

func provideParticipantRepo(db *gorm.DB) repositories.IParticipantRepository {
	return repositories.NewParticipantRepository(db)
}

func provideInvoiceRepo(db *gorm.DB) repositories.IInvoiceRepository {
	return repositories.NewInvoiceRepository(db)
}

func provideRegistrationRepo(db *gorm.DB) repositories.IRegistrationRepository {
	return repositories.NewRegistrationRepository(db)
}

func provideRegistrationService(
	registrationRepo repositories.IRegistrationRepository,
	participantRepo repositories.IParticipantRepository,
	invoiceRepo repositories.IInvoiceRepository,
	workshopRepo repositories.IWorkshopRepository,
	catalogRepo repositories.ICatalogRepository,
	logger *zap.Logger,
) services.RegistrationServiceInterface {
	return services.NewRegistrationService(registrationRepo, participantRepo, invoiceRepo, workshopRepo, catalogRepo, logger)
}

func provideRegistrationController(registrationService services.RegistrationServiceInterface) *controllers.RegistrationController {
	return controllers.NewRegistrationController(registrationService)
}
