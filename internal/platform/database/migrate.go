// File: internal/platform/database/migrate.go
package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/billing"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/edit"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/profile"
)

// AutoMigrate creates or updates the schema for every persisted model. Run at
// startup; GORM only applies missing columns and indexes.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&profile.Profile{},
		&edit.Record{},
		&billing.Order{},
	); err != nil {
		return fmt.Errorf("running schema migration: %w", err)
	}
	return nil
}
