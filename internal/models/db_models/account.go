package db_models

type Account struct {
	BaseModel
	Name         string
	Email        string `gorm:"uniqueIndex;not null"`
	Phone        string
	PasswordHash string
	Role         string `gorm:"size:16;default:parent"` // "parent" or "admin"

	Children []Child `gorm:"foreignKey:AccountID"`
}
