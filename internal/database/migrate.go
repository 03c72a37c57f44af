package database

import (
	"fmt"

	"gorm.io/gorm"

	"hotelbooking/internal/domain"
)

// Migrate brings the schema up to date with the domain entities.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(domain.Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	// A user has at most one draft booking. Partial indexes work on both
	// PostgreSQL and SQLite.
	err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_user_draft ON bookings (user_id) WHERE status = 'draft'`).Error
	if err != nil {
		return fmt.Errorf("create draft booking index: %w", err)
	}
	return nil
}
