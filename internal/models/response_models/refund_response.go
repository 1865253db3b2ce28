package response_models

import "github.com/google/uuid"

type RefundStateResponse struct {
	InvoiceID        uuid.UUID `json:"invoice_id"`
	RefundStatus     string    `json:"refund_status"`
	SumMinor         int64     `json:"sum_minor,omitempty"`
	GatewayRequestID string    `json:"gateway_request_id,omitempty"`
	ErrorMessage     string    `json:"error_message,omitempty"`
}

// EligibilityResponse is the reporting form of the refund window check.
type EligibilityResponse struct {
	Allowed        bool    `json:"allowed"`
	HoursRemaining float64 `json:"hours_remaining"`
}
