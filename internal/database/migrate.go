package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/feastcraft/backend/internal/models"
)

// RunMigrations creates or updates the usage ledger tables
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.UsageRecord{}); err != nil {
		return fmt.Errorf("failed to migrate usage records: %w", err)
	}
	return nil
}
