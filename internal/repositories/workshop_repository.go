package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AlexeiFed/waxhands-sub002/internal/models/db_models"
)

type IWorkshopRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*db_models.Workshop, error)
}

type ICatalogRepository interface {
	GetStyles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]db_models.Style, error)
	GetOptions(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]db_models.Option, error)
	GetChildren(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]db_models.Child, error)
}

type WorkshopRepository struct {
	db *gorm.DB
}

func NewWorkshopRepository(db *gorm.DB) IWorkshopRepository {
	return &WorkshopRepository{db: db}
}

func (r WorkshopRepository) GetByID(ctx context.Context, id uuid.UUID) (*db_models.Workshop, error) {

	var workshop db_models.Workshop
	err := r.db.WithContext(ctx).Preload("School").First(&workshop, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &workshop, nil
}

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) ICatalogRepository {
	return &CatalogRepository{db: db}
}

func (r CatalogRepository) GetStyles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]db_models.Style, error) {

	var styles []db_models.Style
	if err := r.db.WithContext(ctx).Where("id IN ? AND is_active = TRUE", ids).Find(&styles).Error; err != nil {
		return nil, err
	}

	result := make(map[uuid.UUID]db_models.Style, len(styles))
	for _, s := range styles {
		result[s.ID] = s
	}
	return result, nil
}

func (r CatalogRepository) GetOptions(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]db_models.Option, error) {

	var options []db_models.Option
	if err := r.db.WithContext(ctx).Where("id IN ? AND is_active = TRUE", ids).Find(&options).Error; err != nil {
		return nil, err
	}

	result := make(map[uuid.UUID]db_models.Option, len(options))
	for _, o := range options {
		result[o.ID] = o
	}
	return result, nil
}

func (r CatalogRepository) GetChildren(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]db_models.Child, error) {

	var children []db_models.Child
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&children).Error; err != nil {
		return nil, err
	}

	result := make(map[uuid.UUID]db_models.Child, len(children))
	for _, c := range children {
		result[c.ID] = c
	}
	return result, nil
}
