package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/AlexeiFed/waxhands-sub002/internal/models/db_models"
)

// IRegistrationRepository is the all-or-nothing unit of work behind
// group registration: one invoice plus its participants, committed
// together or not at all.
type IRegistrationRepository interface {
	CreateGroup(ctx context.Context, invoice *db_models.Invoice, participants []db_models.Participant) error
}

type RegistrationRepository struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) IRegistrationRepository {
	return &RegistrationRepository{db: db}
}

func (r RegistrationRepository) CreateGroup(ctx context.Context, invoice *db_models.Invoice, participants []db_models.Participant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(invoice).Error; err != nil {
			return err
		}
		for i := range participants {
			participants[i].InvoiceID = invoice.ID
		}
		// A duplicate (child, workshop) pair trips the composite unique
		// index here and rolls the whole group back.
		if err := tx.Create(&participants).Error; err != nil {
			return err
		}
		return nil
	})
}
