package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AlexeiFed/waxhands-sub002/internal/models/request_models"
	"github.com/AlexeiFed/waxhands-sub002/internal/services"
	"github.com/AlexeiFed/waxhands-sub002/pkg/utils"
)

type AccountController struct {
	accountService services.AccountServiceInterface
}

func NewAccountController(accountService services.AccountServiceInterface) *AccountController {
	return &AccountController{
		accountService: accountService,
	}
}

// Register godoc
// @Summary Register a new parent account
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body request_models.SignUpRequest true "Account registration payload"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /accounts/register [post]
func (a *AccountController) Register(c *gin.Context) {
	var req request_models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := a.accountService.CreateAccount(c.Request.Context(), req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Account created successfully")
}

// Login godoc
// @Summary Login to an account
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body request_models.LoginRequest true "Login payload"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /accounts/login [post]
func (a *AccountController) Login(c *gin.Context) {
	var req request_models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	token, err := a.accountService.Login(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"token": token}, "Login successful")
}
