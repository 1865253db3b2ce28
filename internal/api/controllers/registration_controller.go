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

type RegistrationController struct {
	registrationService services.RegistrationServiceInterface
}

func NewRegistrationController(registrationService services.RegistrationServiceInterface) *RegistrationController {
	return &RegistrationController{
		registrationService: registrationService,
	}
}

// GroupRegister godoc
// @Summary Register several children into one workshop under a single invoice
// @Tags Registrations
// @Accept json
// @Produce json
// @Param request body request_models.GroupRegistrationRequest true "Group registration payload"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /registrations [post]
func (r *RegistrationController) GroupRegister(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req request_models.GroupRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	invoice, err := r.registrationService.GroupRegister(c.Request.Context(), caller, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, invoice, "Registration created")
}

// GetInvoice godoc
// @Summary Fetch an invoice with its participants
// @Tags Registrations
// @Produce json
// @Param id path string true "Invoice id"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /invoices/{id} [get]
func (r *RegistrationController) GetInvoice(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid invoice id")
		return
	}

	invoice, err := r.registrationService.GetInvoice(c.Request.Context(), caller, invoiceID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, invoice, "")
}
