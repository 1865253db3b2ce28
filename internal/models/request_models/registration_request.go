package request_models

import "github.com/google/uuid"

// ItemSelection references a catalog item by id with a quantity.
type ItemSelection struct {
	ID       uuid.UUID `json:"id" binding:"required"`
	Quantity int       `json:"quantity" binding:"required,min=1"`
}

// ChildRegistration is one child's selection within a group booking.
type ChildRegistration struct {
	ChildID uuid.UUID       `json:"child_id" binding:"required"`
	Styles  []ItemSelection `json:"styles" binding:"required,min=1,dive"`
	Options []ItemSelection `json:"options" binding:"dive"`
	Notes   string          `json:"notes"`
}

// GroupRegistrationRequest books N children into one workshop
// occurrence under a single invoice.
type GroupRegistrationRequest struct {
	WorkshopID uuid.UUID           `json:"workshop_id" binding:"required"`
	Children   []ChildRegistration `json:"children" binding:"required,min=1,dive"`
	Notes      string              `json:"notes"`
}
