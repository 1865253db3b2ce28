package db_models

import "github.com/google/uuid"

type School struct {
	BaseModel
	Name    string `gorm:"not null"`
	Address string
}

// Workshop is one occurrence of a craft session at a school.
type Workshop struct {
	BaseModel
	SchoolID    uuid.UUID `gorm:"index;not null"`
	Title       string
	StartsAt    int64 `gorm:"index;not null"` // unix seconds
	DurationMin int

	School School `gorm:"foreignKey:SchoolID"`
}
