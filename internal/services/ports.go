package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/AlexeiFed/waxhands-sub002/pkg/robokassa"
)

// Gateway is the outbound payment-gateway surface the services depend
// on. *robokassa.Client satisfies it; tests substitute a double.
type Gateway interface {
	PaymentURL(invID int64, amountMinor int64, description string, shp map[string]string) string
	QueryOperationState(ctx context.Context, invID int64) (*robokassa.OperationState, error)
	SubmitRefund(ctx context.Context, sub robokassa.RefundSubmission) (*robokassa.RefundResult, error)
	QueryRefundState(ctx context.Context, requestID string) (*robokassa.RefundState, error)
	AttachReceipt(ctx context.Context, receipt robokassa.Receipt) error
}

// SideEffectDispatcher hands fire-and-forget work (fiscal receipt,
// platform event) to the background queue after a paid transition wins.
// Implementations log their own failures; nothing propagates back into
// the transition.
type SideEffectDispatcher interface {
	DispatchReceipt(invoiceID uuid.UUID)
	DispatchPaidEvent(invoiceID, accountID uuid.UUID)
}

// PlatformNotifier delivers the "invoice paid" event to the rest of the
// platform.
type PlatformNotifier interface {
	InvoicePaid(ctx context.Context, invoiceID, accountID uuid.UUID) error
}
