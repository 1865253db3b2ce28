package utils

import (
	"errors"
	"fmt"
)

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrDatabaseError      = errors.New("database error")

	ErrAccessDenied = errors.New("access denied")

	ErrInvalidSignature = errors.New("invalid signature")
	ErrInvalidToken     = errors.New("invalid or expired token")
	ErrAmountMismatch   = errors.New("notification amount does not match invoice")

	ErrInvoiceNotFound  = errors.New("invoice not found")
	ErrWorkshopNotFound = errors.New("workshop not found")
	ErrChildNotFound    = errors.New("child not found")

	ErrInvoiceNotPending      = errors.New("invoice is not pending")
	ErrInvoiceNotPaid         = errors.New("invoice is not paid")
	ErrRefundWindowClosed     = errors.New("refund window closed: less than 3 hours before workshop start")
	ErrRefundAlreadyRequested = errors.New("refund already requested for this invoice")
	ErrInvalidRefundSum       = errors.New("refund sum must be positive and not exceed the invoice amount")
	ErrDuplicateRegistration  = errors.New("child already registered for this workshop")
	ErrEmptySelection         = errors.New("registration must include at least one child with items")
)

// GatewayError carries the payment gateway's own message so callers see
// the upstream reason verbatim.
type GatewayError struct {
	Message string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway error: %s", e.Message)
}

func NewGatewayError(message string) *GatewayError {
	return &GatewayError{Message: message}
}
