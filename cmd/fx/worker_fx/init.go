package worker_fx

import (
	"os"

	"github.com/hibiken/asynq"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/AlexeiFed/waxhands-sub002/internal/repositories"
	"github.com/AlexeiFed/waxhands-sub002/internal/services"
	"github.com/AlexeiFed/waxhands-sub002/internal/worker"
)

var Module = fx.Provide(
	provideRedisOpt, provideAsynqClient, provideDispatcher,
	provideReceiptService, provideNotifier,
	provideWorkerServer, provideRefundPoller,
)

func provideRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
	}
}

func provideAsynqClient(redisOpt asynq.RedisClientOpt) *asynq.Client {
	return asynq.NewClient(redisOpt)
}

func provideDispatcher(client *asynq.Client, logger *zap.Logger) services.SideEffectDispatcher {
	return worker.NewDispatcher(client, logger)
}

func provideReceiptService(
	invoiceRepo repositories.IInvoiceRepository,
	accountRepo repositories.IAccountRepository,
	gateway services.Gateway,
	logger *zap.Logger,
) services.ReceiptServiceInterface {
	return services.NewReceiptService(invoiceRepo, accountRepo, gateway, logger)
}

func provideNotifier(logger *zap.Logger) services.PlatformNotifier {
	return services.NewHTTPPlatformNotifier(os.Getenv("PLATFORM_EVENTS_URL"), logger)
}

func provideWorkerServer(
	redisOpt asynq.RedisClientOpt,
	receiptService services.ReceiptServiceInterface,
	notifier services.PlatformNotifier,
	logger *zap.Logger,
) *worker.Server {
	return worker.NewServer(redisOpt, receiptService, notifier, logger)
}

func provideRefundPoller(refundService services.RefundServiceInterface, logger *zap.Logger) *worker.RefundPoller {
	return worker.NewRefundPoller(refundService, logger)
}
