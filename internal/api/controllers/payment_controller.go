package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AlexeiFed/waxhands-sub002/internal/models/request_models"
	"github.com/AlexeiFed/waxhands-sub002/internal/services"
	"github.com/AlexeiFed/waxhands-sub002/pkg/middleware"
	"github.com/AlexeiFed/waxhands-sub002/pkg/robokassa"
	"github.com/AlexeiFed/waxhands-sub002/pkg/utils"
)

type PaymentController struct {
	paymentService services.PaymentServiceInterface
}

func NewPaymentController(paymentService services.PaymentServiceInterface) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
	}
}

// CreatePaymentLink godoc
// @Summary Build a signed gateway payment link for a pending invoice
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body request_models.CreatePaymentLinkRequest true "Invoice to pay"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /payments/link [post]
func (p *PaymentController) CreatePaymentLink(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req request_models.CreatePaymentLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	link, err := p.paymentService.CreatePaymentLink(c.Request.Context(), caller, req.InvoiceID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, link, "Payment link created")
}

// ResultNotification godoc
// @Summary Primary server-to-server payment notification (classic signature scheme)
// @Tags Payments
// @Accept x-www-form-urlencoded
// @Produce plain
// @Success 200 {string} string "OK<InvId>"
// @Failure 400 {string} string "bad sign"
// @Router /payments/result [post]
func (p *PaymentController) ResultNotification(c *gin.Context) {
	params := collectResultParams(c)

	ack, err := p.paymentService.HandleResultNotification(c.Request.Context(), params)
	if err != nil {
		respondResultError(c, err)
		return
	}

	// The gateway keeps retrying until it sees this exact body.
	c.String(http.StatusOK, ack)
}

// TokenNotification godoc
// @Summary Secondary payment notification carrying a signed token
// @Tags Payments
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /payments/webhook [post]
func (p *PaymentController) TokenNotification(c *gin.Context) {
	var req request_models.TokenWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "missing token"})
		return
	}

	outcome, err := p.paymentService.HandleTokenNotification(c.Request.Context(), req.Token)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidToken) {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid token"})
			return
		}
		utils.HandleServiceError(c, err)
		return
	}

	// Both branches answer 200 so the gateway stops redelivering.
	if outcome.PaymentFailed {
		c.JSON(http.StatusOK, gin.H{"status": "payment_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// SuccessReturn godoc
// @Summary Browser return after a successful payment (advisory only)
// @Tags Payments
// @Success 302
// @Failure 400 {string} string
// @Router /payments/success [get]
func (p *PaymentController) SuccessReturn(c *gin.Context) {
	params := collectResultParams(c)

	target, err := p.paymentService.SuccessReturnURL(params)
	if err != nil {
		c.String(http.StatusBadRequest, "bad sign")
		return
	}
	c.Redirect(http.StatusFound, target)
}

// FailReturn godoc
// @Summary Browser return after an abandoned or failed payment
// @Tags Payments
// @Success 302
// @Router /payments/fail [get]
func (p *PaymentController) FailReturn(c *gin.Context) {
	params := collectResultParams(c)
	c.Redirect(http.StatusFound, p.paymentService.FailReturnURL(params))
}

// collectResultParams gathers the gateway's fixed fields plus every
// user passthrough param (Shp_ prefix, any casing) from the form or
// query string.
func collectResultParams(c *gin.Context) robokassa.ResultParams {
	get := func(key string) string {
		if v, ok := c.GetPostForm(key); ok {
			return v
		}
		return c.Query(key)
	}

	params := robokassa.ResultParams{
		OutSum:        get("OutSum"),
		InvID:         get("InvId"),
		Signature:     get("SignatureValue"),
		PaymentMethod: get("PaymentMethod"),
		CurrencyLabel: get("IncCurrLabel"),
		Shp:           map[string]string{},
	}

	_ = c.Request.ParseForm()
	for key, values := range c.Request.Form {
		if !strings.HasPrefix(strings.ToLower(key), "shp_") {
			continue
		}
		if len(values) > 0 {
			params.Shp[key] = values[0]
		}
	}
	return params
}

// respondResultError maps failures onto the plain-text contract the
// gateway's retry loop understands. Anything other than the OK body
// triggers redelivery, which is exactly what a transient error wants.
func respondResultError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrInvalidSignature):
		c.String(http.StatusBadRequest, "bad sign")
	case errors.Is(err, utils.ErrAmountMismatch):
		c.String(http.StatusBadRequest, "bad sum")
	case errors.Is(err, utils.ErrInvoiceNotFound):
		c.String(http.StatusNotFound, "invoice not found")
	default:
		c.String(http.StatusInternalServerError, "internal error")
	}
}
