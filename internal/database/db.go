package database

import (
	"log"

	"github.com/apptrack/apptrack/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the mirror database and runs migrations.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	log.Println("Running Migrations...")
	if err := db.AutoMigrate(&models.Application{}, &models.ApplicationEvent{}); err != nil {
		return nil, err
	}
	return db, nil
}
