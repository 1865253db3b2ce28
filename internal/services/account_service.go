package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/AlexeiFed/waxhands-sub002/internal/models/db_models"
	"github.com/AlexeiFed/waxhands-sub002/internal/models/request_models"
	"github.com/AlexeiFed/waxhands-sub002/internal/repositories"
	"github.com/AlexeiFed/waxhands-sub002/pkg/utils"
)

type AccountServiceInterface interface {
	Login(ctx context.Context, request request_models.LoginRequest) (string, error)
	CreateAccount(ctx context.Context, request request_models.SignUpRequest) error
}

type AccountService struct {
	accountRepo repositories.IAccountRepository
	logger      *zap.Logger
}

func NewAccountService(accountRepo repositories.IAccountRepository, logger *zap.Logger) AccountServiceInterface {
	return &AccountService{
		accountRepo: accountRepo,
		logger:      logger,
	}
}

func (a *AccountService) Login(ctx context.Context, request request_models.LoginRequest) (string, error) {

	account, err := a.accountRepo.FindByEmail(ctx, request.Email)
	if err != nil {
		return "", utils.ErrDatabaseError
	}
	if account == nil {
		return "", utils.ErrAccountNotFound
	}

	if err := utils.ComparePasswords(account.PasswordHash, request.Password); err != nil {
		return "", utils.ErrInvalidCredentials
	}

	token, err := utils.CreateToken(account.ID, account.Role)
	if err != nil {
		a.logger.Error("token generation failed", zap.Error(err))
		return "", utils.ErrInvalidCredentials
	}

	return token, nil
}

func (a *AccountService) CreateAccount(ctx context.Context, request request_models.SignUpRequest) error {

	existing, err := a.accountRepo.FindByEmail(ctx, request.Email)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if existing != nil {
		return utils.ErrEmailAlreadyExists
	}

	hashed, err := utils.HashPassword(request.Password)
	if err != nil {
		return utils.ErrDatabaseError
	}

	account := &db_models.Account{
		Name:         request.DisplayName,
		Email:        request.Email,
		Phone:        request.Phone,
		PasswordHash: hashed,
		Role:         utils.RoleParent,
	}

	if err := a.accountRepo.Create(ctx, account); err != nil {
		return utils.ErrDatabaseError
	}

	return nil
}
