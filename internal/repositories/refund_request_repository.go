package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AlexeiFed/waxhands-sub002/internal/models/db_models"
)

type IRefundRequestRepository interface {
	Create(ctx context.Context, request *db_models.RefundRequest) error
	GetLatestByInvoice(ctx context.Context, invoiceID uuid.UUID) (*db_models.RefundRequest, error)
	SetOutcome(ctx context.Context, id uuid.UUID, status db_models.RefundRequestStatus, errorMessage string) error
}

type RefundRequestRepository struct {
	db *gorm.DB
}

func NewRefundRequestRepository(db *gorm.DB) IRefundRequestRepository {
	return &RefundRequestRepository{db: db}
}

func (r RefundRequestRepository) Create(ctx context.Context, request *db_models.RefundRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r RefundRequestRepository) GetLatestByInvoice(ctx context.Context, invoiceID uuid.UUID) (*db_models.RefundRequest, error) {

	var request db_models.RefundRequest
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at DESC").
		First(&request).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &request, nil
}

func (r RefundRequestRepository) SetOutcome(ctx context.Context, id uuid.UUID, status db_models.RefundRequestStatus, errorMessage string) error {
	return r.db.WithContext(ctx).
		Model(&db_models.RefundRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        status,
			"error_message": errorMessage,
		}).Error
}
