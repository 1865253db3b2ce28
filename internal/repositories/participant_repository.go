package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AlexeiFed/waxhands-sub002/internal/models/db_models"
)

type IParticipantRepository interface {
	// RegisteredChildIDs returns which of the given children already
	// have a participant record for the workshop occurrence.
	RegisteredChildIDs(ctx context.Context, workshopID uuid.UUID, childIDs []uuid.UUID) ([]uuid.UUID, error)
	ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]db_models.Participant, error)
}

type ParticipantRepository struct {
	db *gorm.DB
}

func NewParticipantRepository(db *gorm.DB) IParticipantRepository {
	return &ParticipantRepository{db: db}
}

func (r ParticipantRepository) RegisteredChildIDs(ctx context.Context, workshopID uuid.UUID, childIDs []uuid.UUID) ([]uuid.UUID, error) {

	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&db_models.Participant{}).
		Where("workshop_id = ? AND child_id IN ?", workshopID, childIDs).
		Pluck("child_id", &ids).Error

	if err != nil {
		return nil, err
	}

	return ids, nil
}

func (r ParticipantRepository) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]db_models.Participant, error) {

	var participants []db_models.Participant
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Find(&participants).Error

	if err != nil {
		return nil, err
	}

	return participants, nil
}
