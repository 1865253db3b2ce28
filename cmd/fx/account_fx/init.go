package account_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AlexeiFed/waxhands-sub002/internal/api/controllers"
	"github.com/AlexeiFed/waxhands-sub002/internal/repositories"
	"github.com/AlexeiFed/waxhands-sub002/internal/services"
)

var Module = fx.Provide(
	provideAccountRepo, provideAccountService, provideAccountController,
)

func provideAccountRepo(db *gorm.DB) repositories.IAccountRepository {
	return repositories.NewAccountRepository(db)
}

func provideAccountService(accountRepo repositories.IAccountRepository, logger *zap.Logger) services.AccountServiceInterface {
	return services.NewAccountService(accountRepo, logger)
}

func provideAccountController(accountService services.AccountServiceInterface) *controllers.AccountController {
	return controllers.NewAccountController(accountService)
}
