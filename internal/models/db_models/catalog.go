package db_models

// Style is a bookable craft variant (e.g. a wax-hand composition).
type Style struct {
	BaseModel
	Name       string `gorm:"not null"`
	PriceMinor int64  `gorm:"not null"` // kopecks
	IsActive   bool   `gorm:"default:true"`
}

// Option is an add-on sold alongside a style (lacquer, box, engraving).
type Option struct {
	BaseModel
	Name       string `gorm:"not null"`
	PriceMinor int64  `gorm:"not null"`
	IsActive   bool   `gorm:"default:true"`
}
