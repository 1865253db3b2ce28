package utils

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	id, _ := c.Get("trace_id")
	s, _ := id.(string)
	return s
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

// HandleServiceError maps service-layer errors onto HTTP statuses:
// authorization -> 403, validation -> 400, not found -> 404,
// conflicts -> 400 with the reason, gateway failures -> 502 with the
// upstream message, everything else -> 500.
func HandleServiceError(c *gin.Context, err error) {
	var gatewayErr *GatewayError

	switch {
	case errors.Is(err, ErrAccessDenied):
		RespondError(c, http.StatusForbidden, ErrAccessDenied.Error())
	case errors.Is(err, ErrInvalidCredentials):
		RespondError(c, http.StatusUnauthorized, ErrInvalidCredentials.Error())
	case errors.Is(err, ErrInvalidSignature),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrAmountMismatch),
		errors.Is(err, ErrInvalidRefundSum),
		errors.Is(err, ErrEmptySelection):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvoiceNotFound),
		errors.Is(err, ErrWorkshopNotFound),
		errors.Is(err, ErrChildNotFound),
		errors.Is(err, ErrAccountNotFound):
		RespondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvoiceNotPending),
		errors.Is(err, ErrInvoiceNotPaid),
		errors.Is(err, ErrRefundWindowClosed),
		errors.Is(err, ErrRefundAlreadyRequested),
		errors.Is(err, ErrDuplicateRegistration),
		errors.Is(err, ErrEmailAlreadyExists):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &gatewayErr):
		RespondError(c, http.StatusBadGateway, gatewayErr.Message)
	case errors.Is(err, ErrDatabaseError):
		log.Printf("Database error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		log.Printf("Unknown error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
