package database

import (
	"filevault-backend/internal/models"

	"github.com/rs/zerolog/log"
)

// RunMigrations performs all database migrations
func RunMigrations() error {
	db := GetDB()

	// Run migrations in dependency order; token and upload rows
	// reference users with ON DELETE CASCADE.
	if err := db.AutoMigrate(&models.User{}); err != nil {
		return err
	}
	if err := db.AutoMigrate(&models.RefreshToken{}); err != nil {
		return err
	}
	if err := db.AutoMigrate(&models.Upload{}); err != nil {
		return err
	}

	log.Info().Msg("Database migrations completed successfully")
	return nil
}
