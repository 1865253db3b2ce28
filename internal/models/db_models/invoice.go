package db_models

import "github.com/google/uuid"

type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

type RefundStatus string

const (
	RefundStatusNone      RefundStatus = "none"
	RefundStatusPending   RefundStatus = "pending"
	RefundStatusCompleted RefundStatus = "completed"
	RefundStatusFailed    RefundStatus = "failed"
)

// Invoice is one bill covering all children of one registration at one
// workshop occurrence. Amount is frozen at creation and never
// recomputed after payment. Status moves pending->paid (webhook) or
// ->cancelled (refund flow) only; refund status moves
// none->pending->{completed,failed} only.
type Invoice struct {
	BaseModel
	AccountID  uuid.UUID `gorm:"index;not null"`
	WorkshopID uuid.UUID `gorm:"index;not null"`

	AmountMinor int64  `gorm:"not null"`
	Currency    string `gorm:"size:3;default:RUB"`

	Status       InvoiceStatus `gorm:"size:16;index;default:pending"`
	RefundStatus RefundStatus  `gorm:"size:16;default:none"`

	// Gateway correlation. InvID is nil until the first payment attempt
	// assigns one.
	InvID         *int64 `gorm:"uniqueIndex"`
	PaymentID     string `gorm:"index"` // external id or operation key recorded at payment
	PaymentMethod string
	PaidAt        *int64

	RefundRequestID string

	Notes string

	Account      Account       `gorm:"foreignKey:AccountID"`
	Workshop     Workshop      `gorm:"foreignKey:WorkshopID"`
	Participants []Participant `gorm:"foreignKey:InvoiceID"`
}
