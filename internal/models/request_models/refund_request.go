package request_models

import "github.com/google/uuid"

// CreateRefundRequest initiates a gateway refund for a paid invoice.
// Sum is in minor units; nil means the full invoice amount. FullCancel
// is the admin path that also sends the original line items.
type CreateRefundRequest struct {
	InvoiceID  uuid.UUID `json:"invoice_id" binding:"required"`
	SumMinor   *int64    `json:"sum_minor" binding:"omitempty,min=1"`
	FullCancel bool      `json:"full_cancel"`
}
