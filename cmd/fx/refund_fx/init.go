package refund_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AlexeiFed/waxhands-sub002/internal/api/controllers"
	"github.com/AlexeiFed/waxhands-sub002/internal/repositories"
	"github.com/AlexeiFed/waxhands-sub002/internal/services"
	mem "github.com/AlexeiFed/waxhands-sub002/pkg/memcache"
)

var Module = fx.Provide(
	provideRefundRequestRepo, provideRefundService, provideRefundController,
)

func provideRefundRequestRepo(db *gorm.DB) repositories.IRefundRequestRepository {
	return repositories.NewRefundRequestRepository(db)
}

func provideRefundService(
	invoiceRepo repositories.IInvoiceRepository,
	workshopRepo repositories.IWorkshopRepository,
	refundRepo repositories.IRefundRequestRepository,
	gateway services.Gateway,
	opKeys mem.OpKeyStore,
	logger *zap.Logger,
) services.RefundServiceInterface {
	return services.NewRefundService(invoiceRepo, workshopRepo, refundRepo, gateway, opKeys, logger)
}

func provideRefundController(refundService services.RefundServiceInterface) *controllers.RefundController {
	return controllers.NewRefundController(refundService)
}
