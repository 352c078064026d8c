package repository

import (
	"fmt"
	"os"

	"github.com/Vanshh16/social-meetup-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func InitDB() (*gorm.DB, error) {
	// Build connection string
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
	)

	// Connect to database
	// TranslateError maps driver unique-violation errors onto
	// gorm.ErrDuplicatedKey, which the persistence worker relies on.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	// Auto-migrate models
	if err := db.AutoMigrate(
		&models.User{},
		&models.DeviceToken{},
		&models.Category{},
		&models.SubCategory{},
		&models.Meetup{},
		&models.Chat{},
		&models.Message{},
		&models.JoinRequest{},
		&models.Wallet{},
		&models.WalletTransaction{},
		&models.Notification{},
		&models.Payment{},
	); err != nil {
		return nil, err
	}

	return db, nil
}
