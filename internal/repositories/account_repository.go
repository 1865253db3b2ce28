package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AlexeiFed/waxhands-sub002/internal/models/db_models"
)

type IAccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*db_models.Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (*db_models.Account, error)
	Create(ctx context.Context, account *db_models.Account) error
}

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) IAccountRepository {
	return &AccountRepository{db: db}
}

func (r AccountRepository) FindByEmail(ctx context.Context, email string) (*db_models.Account, error) {

	var account db_models.Account
	err := r.db.WithContext(ctx).First(&account, "email = ?", email).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

func (r AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*db_models.Account, error) {

	var account db_models.Account
	err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

func (r AccountRepository) Create(ctx context.Context, account *db_models.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}
