package db_models

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// LineItem is a catalog selection with the unit price frozen at
// registration time.
type LineItem struct {
	ItemID         uuid.UUID `json:"item_id"`
	Name           string    `json:"name"`
	UnitPriceMinor int64     `json:"unit_price_minor"`
	Quantity       int       `json:"quantity"`
}

// Participant is one child's enrollment in one workshop occurrence,
// always created together with its invoice. The composite unique index
// is the hard duplicate-booking guard.
type Participant struct {
	BaseModel
	InvoiceID  uuid.UUID `gorm:"index;not null"`
	ChildID    uuid.UUID `gorm:"not null;uniqueIndex:idx_participant_child_workshop"`
	WorkshopID uuid.UUID `gorm:"not null;uniqueIndex:idx_participant_child_workshop"`

	ChildName string

	Styles  datatypes.JSON `gorm:"type:jsonb;default:'[]'"` // []LineItem
	Options datatypes.JSON `gorm:"type:jsonb;default:'[]'"` // []LineItem

	TotalMinor int64 `gorm:"not null"`
	Notes      string
}

func MarshalLineItems(items []LineItem) datatypes.JSON {
	b, _ := json.Marshal(items)
	return b
}

func (p *Participant) StyleItems() []LineItem  { return unmarshalLineItems(p.Styles) }
func (p *Participant) OptionItems() []LineItem { return unmarshalLineItems(p.Options) }

func unmarshalLineItems(raw datatypes.JSON) []LineItem {
	var items []LineItem
	_ = json.Unmarshal(raw, &items)
	return items
}
