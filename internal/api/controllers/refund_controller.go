package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AlexeiFed/waxhands-sub002/internal/models/request_models"
	"github.com/AlexeiFed/waxhands-sub002/internal/services"
	"github.com/AlexeiFed/waxhands-sub002/pkg/middleware"
	"github.com/AlexeiFed/waxhands-sub002/pkg/utils"
)

type RefundController struct {
	refundService services.RefundServiceInterface
}

func NewRefundController(refundService services.RefundServiceInterface) *RefundController {
	return &RefundController{
		refundService: refundService,
	}
}

// RequestRefund godoc
// @Summary Submit a refund for a paid invoice
// @Tags Refunds
// @Accept json
// @Produce json
// @Param request body request_models.CreateRefundRequest true "Refund payload"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /refunds [post]
func (r *RefundController) RequestRefund(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req request_models.CreateRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	state, err := r.refundService.RequestRefund(c.Request.Context(), caller, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, state, "Refund submitted")
}

// Eligibility godoc
// @Summary Check whether the refund window is still open for a workshop
// @Tags Refunds
// @Produce json
// @Param workshop_id query string true "Workshop id"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /refunds/eligibility [get]
func (r *RefundController) Eligibility(c *gin.Context) {
	workshopID, err := uuid.Parse(c.Query("workshop_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid workshop id")
		return
	}

	report, err := r.refundService.Eligibility(c.Request.Context(), workshopID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, report, "")
}

// GetRefundState godoc
// @Summary Fetch the refund state of an invoice
// @Tags Refunds
// @Produce json
// @Param invoiceId path string true "Invoice id"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /refunds/{invoiceId} [get]
func (r *RefundController) GetRefundState(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("invoiceId"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid invoice id")
		return
	}

	state, err := r.refundService.GetRefundState(c.Request.Context(), caller, invoiceID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, state, "")
}
