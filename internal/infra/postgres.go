package infra

import (
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/AlexeiFed/waxhands-sub002/internal/models/db_models"
)

func InitPostgresql() *gorm.DB {

	dsn := os.Getenv("POSTGRES_URL")

	// TranslateError maps driver unique-violations onto
	// gorm.ErrDuplicatedKey, which the registration transaction relies on.
	connectionPool, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})

	if err != nil {
		log.Printf("Error connecting to database: %v", err)
		log.Fatal("Error connecting to database")
	}

	return connectionPool
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&db_models.Account{},
		&db_models.Child{},
		&db_models.School{},
		&db_models.Workshop{},
		&db_models.Style{},
		&db_models.Option{},
		&db_models.Invoice{},
		&db_models.Participant{},
		&db_models.RefundRequest{},
	)
}

func ClosePostgresql(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting database instance: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("PostgreSQL database connection closed successfully")
	}
}
