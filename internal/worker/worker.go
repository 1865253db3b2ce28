package worker

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/AlexeiFed/waxhands-sub002/internal/services"
)

// Server runs the background side-effect handlers: fiscal receipt
// issuance and platform event delivery. Both are best-effort retries of
// work the webhook path already committed past.
type Server struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

func NewServer(
	redisOpt asynq.RedisClientOpt,
	receiptService services.ReceiptServiceInterface,
	notifier services.PlatformNotifier,
	logger *zap.Logger,
) *Server {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			"default": 1,
		},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReceiptIssue, handleReceiptIssue(receiptService, logger))
	mux.HandleFunc(TypeInvoicePaid, handleInvoicePaid(notifier, logger))

	return &Server{srv: srv, mux: mux, logger: logger}
}

func (s *Server) Start() {
	go func() {
		s.logger.Info("starting side-effect worker")
		if err := s.srv.Run(s.mux); err != nil {
			s.logger.Error("side-effect worker stopped", zap.Error(err))
		}
	}()
}

func (s *Server) Shutdown() {
	s.srv.Shutdown()
}

func handleReceiptIssue(receiptService services.ReceiptServiceInterface, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload ReceiptIssuePayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			logger.Error("receipt task: bad payload", zap.Error(err))
			return nil // not retryable
		}

		if err := receiptService.IssueForInvoice(ctx, payload.InvoiceID); err != nil {
			logger.Warn("receipt issuance failed, will retry",
				zap.String("invoice_id", payload.InvoiceID.String()),
				zap.Error(err))
			return err
		}
		return nil
	}
}

func handleInvoicePaid(notifier services.PlatformNotifier, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload InvoicePaidPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			logger.Error("invoice paid task: bad payload", zap.Error(err))
			return nil // not retryable
		}

		if err := notifier.InvoicePaid(ctx, payload.InvoiceID, payload.AccountID); err != nil {
			logger.Warn("invoice paid event delivery failed, will retry",
				zap.String("invoice_id", payload.InvoiceID.String()),
				zap.Error(err))
			return err
		}
		return nil
	}
}
