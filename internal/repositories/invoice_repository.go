package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AlexeiFed/waxhands-sub002/internal/models/db_models"
)

// IInvoiceRepository is the narrow store adapter for invoices. Every
// state transition is a conditional update keyed on the expected prior
// status; the bool result reports whether this caller won the
// transition. Replays and races observe won=false and no change.
type IInvoiceRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*db_models.Invoice, error)
	GetByInvID(ctx context.Context, invID int64) (*db_models.Invoice, error)

	AssignInvID(ctx context.Context, id uuid.UUID, invID int64) (bool, error)
	MarkPaid(ctx context.Context, id uuid.UUID, paymentID, paymentMethod string, paidAt int64) (bool, error)

	BeginRefund(ctx context.Context, id uuid.UUID) (bool, error)
	SetRefundRequestID(ctx context.Context, id uuid.UUID, requestID string) error
	ResetRefund(ctx context.Context, id uuid.UUID) (bool, error)
	CompleteRefund(ctx context.Context, id uuid.UUID) (bool, error)
	FailRefund(ctx context.Context, id uuid.UUID) (bool, error)

	ListRefundPending(ctx context.Context) ([]db_models.Invoice, error)
}

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) IInvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r InvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*db_models.Invoice, error) {

	var invoice db_models.Invoice
	err := r.db.WithContext(ctx).Preload("Participants").First(&invoice, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &invoice, nil
}

func (r InvoiceRepository) GetByInvID(ctx context.Context, invID int64) (*db_models.Invoice, error) {

	var invoice db_models.Invoice
	err := r.db.WithContext(ctx).Preload("Participants").First(&invoice, "inv_id = ?", invID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &invoice, nil
}

// AssignInvID sets the gateway invoice id once; a second attempt on an
// invoice that already has one is a no-op.
func (r InvoiceRepository) AssignInvID(ctx context.Context, id uuid.UUID, invID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db_models.Invoice{}).
		Where("id = ? AND inv_id IS NULL", id).
		Update("inv_id", invID)
	return res.RowsAffected == 1, res.Error
}

// MarkPaid performs the pending->paid edge. At most one delivery wins;
// duplicate and racing notifications see won=false.
func (r InvoiceRepository) MarkPaid(ctx context.Context, id uuid.UUID, paymentID, paymentMethod string, paidAt int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db_models.Invoice{}).
		Where("id = ? AND status = ?", id, db_models.InvoiceStatusPending).
		Updates(map[string]interface{}{
			"status":         db_models.InvoiceStatusPaid,
			"payment_id":     paymentID,
			"payment_method": paymentMethod,
			"paid_at":        paidAt,
		})
	return res.RowsAffected == 1, res.Error
}

// BeginRefund claims the none->pending refund edge before the gateway
// submission. Losing the claim means a refund is already in flight.
func (r InvoiceRepository) BeginRefund(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db_models.Invoice{}).
		Where("id = ? AND status = ? AND refund_status = ?",
			id, db_models.InvoiceStatusPaid, db_models.RefundStatusNone).
		Update("refund_status", db_models.RefundStatusPending)
	return res.RowsAffected == 1, res.Error
}

func (r InvoiceRepository) SetRefundRequestID(ctx context.Context, id uuid.UUID, requestID string) error {
	return r.db.WithContext(ctx).
		Model(&db_models.Invoice{}).
		Where("id = ?", id).
		Update("refund_request_id", requestID).Error
}

// ResetRefund compensates a failed gateway submission: pending -> none,
// leaving the invoice exactly as before the attempt.
func (r InvoiceRepository) ResetRefund(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db_models.Invoice{}).
		Where("id = ? AND refund_status = ?", id, db_models.RefundStatusPending).
		Updates(map[string]interface{}{
			"refund_status":     db_models.RefundStatusNone,
			"refund_request_id": "",
		})
	return res.RowsAffected == 1, res.Error
}

// CompleteRefund applies the gateway-confirmed completion: the refund
// becomes completed and the invoice cancelled in one conditional write.
func (r InvoiceRepository) CompleteRefund(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db_models.Invoice{}).
		Where("id = ? AND refund_status = ?", id, db_models.RefundStatusPending).
		Updates(map[string]interface{}{
			"refund_status": db_models.RefundStatusCompleted,
			"status":        db_models.InvoiceStatusCancelled,
		})
	return res.RowsAffected == 1, res.Error
}

// FailRefund records a gateway-reported failure; the invoice stays paid.
func (r InvoiceRepository) FailRefund(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db_models.Invoice{}).
		Where("id = ? AND refund_status = ?", id, db_models.RefundStatusPending).
		Update("refund_status", db_models.RefundStatusFailed)
	return res.RowsAffected == 1, res.Error
}

func (r InvoiceRepository) ListRefundPending(ctx context.Context) ([]db_models.Invoice, error) {

	var invoices []db_models.Invoice
	err := r.db.WithContext(ctx).
		Where("refund_status = ?", db_models.RefundStatusPending).
		Find(&invoices).Error

	if err != nil {
		return nil, err
	}

	return invoices, nil
}
