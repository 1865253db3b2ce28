package payment_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/AlexeiFed/waxhands-sub002/internal/api/controllers"
	"github.com/AlexeiFed/waxhands-sub002/internal/repositories"
	"github.com/AlexeiFed/waxhands-sub002/internal/services"
)

var Module = fx.Provide(
	providePaymentService, providePaymentController,
)

func providePaymentService(
	invoiceRepo repositories.IInvoiceRepository,
	gateway services.Gateway,
	dispatcher services.SideEffectDispatcher,
	cfg services.PaymentConfig,
	logger *zap.Logger,
) services.PaymentServiceInterface {
	return services.NewPaymentService(invoiceRepo, gateway, dispatcher, cfg, logger)
}

func providePaymentController(paymentService services.PaymentServiceInterface) *controllers.PaymentController {
	return controllers.NewPaymentController(paymentService)
}
