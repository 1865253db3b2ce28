package request_models

import "github.com/google/uuid"

type CreatePaymentLinkRequest struct {
	InvoiceID uuid.UUID `json:"invoice_id" binding:"required"`
}
