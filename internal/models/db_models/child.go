package db_models

import "github.com/google/uuid"

type Child struct {
	BaseModel
	AccountID uuid.UUID `gorm:"index;not null"`
	Name      string    `gorm:"not null"`
	Age       int
}
