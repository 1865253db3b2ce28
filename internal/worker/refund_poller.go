package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/AlexeiFed/waxhands-sub002/internal/services"
)

// RefundPoller periodically asks the gateway for the outcome of every
// in-flight refund. Completion is what finally moves an invoice to
// cancelled; submission alone never does.
type RefundPoller struct {
	cron   *cron.Cron
	logger *zap.Logger
}

func NewRefundPoller(refundService services.RefundServiceInterface, logger *zap.Logger) *RefundPoller {
	c := cron.New()

	_, err := c.AddFunc("@every 5m", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		refundService.PollPending(ctx)
	})
	if err != nil {
		logger.Error("registering refund poll job failed", zap.Error(err))
	}

	return &RefundPoller{cron: c, logger: logger}
}

func (p *RefundPoller) Start() {
	p.logger.Info("starting refund status poller")
	p.cron.Start()
}

func (p *RefundPoller) Stop() {
	ctx := p.cron.Stop()
	<-ctx.Done()
}
