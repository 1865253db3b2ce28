package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AlexeiFed/waxhands-sub002/internal/models/db_models"
	"github.com/AlexeiFed/waxhands-sub002/internal/models/request_models"
	"github.com/AlexeiFed/waxhands-sub002/pkg/utils"
)

type mockAccountRepo struct {
	mock.Mock
}

func (m *mockAccountRepo) FindByEmail(ctx context.Context, email string) (*db_models.Account, error) {
	args := m.Called(ctx, email)
	account, _ := args.Get(0).(*db_models.Account)
	return account, args.Error(1)
}

func (m *mockAccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*db_models.Account, error) {
	args := m.Called(ctx, id)
	account, _ := args.Get(0).(*db_models.Account)
	return account, args.Error(1)
}

func (m *mockAccountRepo) Create(ctx context.Context, account *db_models.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	hash, err := utils.HashPassword("correct horse")
	require.NoError(t, err)

	account := &db_models.Account{Email: "p@example.com", PasswordHash: hash, Role: utils.RoleParent}
	account.ID = uuid.New()

	t.Run("valid credentials yield a token", func(t *testing.T) {
		repo := new(mockAccountRepo)
		repo.On("FindByEmail", ctx, "p@example.com").Return(account, nil)
		service := NewAccountService(repo, zap.NewNop())

		token, err := service.Login(ctx, request_models.LoginRequest{Email: "p@example.com", Password: "correct horse"})
		require.NoError(t, err)
		assert.NotEmpty(t, token)
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		repo := new(mockAccountRepo)
		repo.On("FindByEmail", ctx, "p@example.com").Return(account, nil)
		service := NewAccountService(repo, zap.NewNop())

		_, err := service.Login(ctx, request_models.LoginRequest{Email: "p@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
	})

	t.Run("unknown email rejected", func(t *testing.T) {
		repo := new(mockAccountRepo)
		repo.On("FindByEmail", ctx, "nobody@example.com").Return(nil, nil)
		service := NewAccountService(repo, zap.NewNop())

		_, err := service.Login(ctx, request_models.LoginRequest{Email: "nobody@example.com", Password: "x"})
		assert.ErrorIs(t, err, utils.ErrAccountNotFound)
	})
}

func TestCreateAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("new account stored with hashed password and parent role", func(t *testing.T) {
		repo := new(mockAccountRepo)
		repo.On("FindByEmail", ctx, "new@example.com").Return(nil, nil)

		var created *db_models.Account
		repo.On("Create", ctx, mock.Anything).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*db_models.Account)
			}).Return(nil)

		service := NewAccountService(repo, zap.NewNop())
		err := service.CreateAccount(ctx, request_models.SignUpRequest{
			DisplayName: "Alexei",
			Email:       "new@example.com",
			Password:    "longenough",
		})
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, utils.RoleParent, created.Role)
		assert.NotEqual(t, "longenough", created.PasswordHash)
		assert.NoError(t, utils.ComparePasswords(created.PasswordHash, "longenough"))
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		repo := new(mockAccountRepo)
		repo.On("FindByEmail", ctx, "taken@example.com").Return(&db_models.Account{}, nil)
		service := NewAccountService(repo, zap.NewNop())

		err := service.CreateAccount(ctx, request_models.SignUpRequest{
			DisplayName: "X",
			Email:       "taken@example.com",
			Password:    "longenough",
		})
		assert.ErrorIs(t, err, utils.ErrEmailAlreadyExists)
	})
}
