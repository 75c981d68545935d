package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/doofx0071/gym-bro-sub000/config"
	"github.com/doofx0071/gym-bro-sub000/internal/models"
)

// New opens the postgres connection and runs migrations.
func New(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode,
	)

	log.Printf("Connecting to database at %s:%s as user %s", cfg.DBHost, cfg.DBPort, cfg.DBUser)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error accessing database pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Printf("Successfully connected to database")
	return db, nil
}

// Migrate applies the schema for all application models.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.MealPlan{},
		&models.WorkoutPlan{},
		&models.WorkoutLog{},
	)
	if err != nil {
		return fmt.Errorf("error running migrations: %w", err)
	}
	return nil
}
