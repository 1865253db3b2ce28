package robokassa_fx

import (
	"os"

	"go.uber.org/fx"

	"github.com/AlexeiFed/waxhands-sub002/internal/services"
	"github.com/AlexeiFed/waxhands-sub002/pkg/robokassa"
)

var Module = fx.Provide(
	provideClient, provideGateway, providePaymentConfig,
)

func provideClient() *robokassa.Client {
	return robokassa.NewClient(robokassa.Config{
		MerchantLogin: os.Getenv("ROBOKASSA_MERCHANT_LOGIN"),
		Password1:     os.Getenv("ROBOKASSA_PASSWORD_1"),
		Password2:     os.Getenv("ROBOKASSA_PASSWORD_2"),
		TokenSecret:   os.Getenv("ROBOKASSA_TOKEN_SECRET"),
		BaseURL:       os.Getenv("ROBOKASSA_BASE_URL"),
		ServicesURL:   os.Getenv("ROBOKASSA_SERVICES_URL"),
		IsTest:        os.Getenv("ROBOKASSA_TEST_MODE") == "true",
	})
}

func provideGateway(client *robokassa.Client) services.Gateway {
	return client
}

func providePaymentConfig() services.PaymentConfig {
	return services.PaymentConfig{
		Password1:      os.Getenv("ROBOKASSA_PASSWORD_1"),
		Password2:      os.Getenv("ROBOKASSA_PASSWORD_2"),
		TokenSecret:    os.Getenv("ROBOKASSA_TOKEN_SECRET"),
		SuccessPageURL: os.Getenv("PAYMENT_SUCCESS_PAGE_URL"),
		FailPageURL:    os.Getenv("PAYMENT_FAIL_PAGE_URL"),
	}
}
