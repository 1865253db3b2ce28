package db_models

import "github.com/google/uuid"

type RefundRequestStatus string

const (
	RefundRequestSubmitted RefundRequestStatus = "submitted"
	RefundRequestCompleted RefundRequestStatus = "completed"
	RefundRequestFailed    RefundRequestStatus = "failed"
)

// RefundRequest records one gateway-side refund operation against a
// paid invoice. Terminal states are gateway-reported, never inferred.
type RefundRequest struct {
	BaseModel
	InvoiceID uuid.UUID `gorm:"index;not null"`

	OpKey    string `gorm:"not null"`
	SumMinor int64  `gorm:"not null"`

	GatewayRequestID string              `gorm:"index"`
	Status           RefundRequestStatus `gorm:"size:16;default:submitted"`
	ErrorMessage     string
}
