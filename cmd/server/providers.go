// File: cmd/server/providers.go
package main

import (
	"log"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/config"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/platform/database"
)

// provideDatabase connects to Postgres and applies schema migrations.
func provideDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.NewGORM(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// provideCleanup releases process-wide resources on shutdown.
func provideCleanup(logger *zap.Logger, db *gorm.DB) func() {
	return func() {
		logger.Info("Executing cleanup tasks...")
		database.CloseGORMDB(db)
		if err := logger.Sync(); err != nil {
			log.Printf("ERROR: Failed to sync logger during cleanup: %v", err)
		}
		log.Println("Cleanup finished.")
	}
}
