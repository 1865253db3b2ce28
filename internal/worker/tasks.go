package worker

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	TypeReceiptIssue = "receipt:issue"
	TypeInvoicePaid  = "invoice:paid"
)

type ReceiptIssuePayload struct {
	InvoiceID uuid.UUID `json:"invoice_id"`
}

type InvoicePaidPayload struct {
	InvoiceID uuid.UUID `json:"invoice_id"`
	AccountID uuid.UUID `json:"account_id"`
}

// Dispatcher enqueues fire-and-forget side effects after a paid
// transition wins. Enqueue failures are logged and swallowed: the
// transition has already committed and must not be rolled back or
// retried because of them.
type Dispatcher struct {
	client *asynq.Client
	logger *zap.Logger
}

func NewDispatcher(client *asynq.Client, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{client: client, logger: logger}
}

func (d *Dispatcher) DispatchReceipt(invoiceID uuid.UUID) {
	payload, _ := json.Marshal(ReceiptIssuePayload{InvoiceID: invoiceID})
	task := asynq.NewTask(TypeReceiptIssue, payload, asynq.MaxRetry(5))
	if _, err := d.client.Enqueue(task); err != nil {
		d.logger.Error("enqueue receipt task failed",
			zap.String("invoice_id", invoiceID.String()),
			zap.Error(err))
	}
}

func (d *Dispatcher) DispatchPaidEvent(invoiceID, accountID uuid.UUID) {
	payload, _ := json.Marshal(InvoicePaidPayload{InvoiceID: invoiceID, AccountID: accountID})
	task := asynq.NewTask(TypeInvoicePaid, payload, asynq.MaxRetry(5))
	if _, err := d.client.Enqueue(task); err != nil {
		d.logger.Error("enqueue invoice paid task failed",
			zap.String("invoice_id", invoiceID.String()),
			zap.Error(err))
	}
}
