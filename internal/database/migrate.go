package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/fridgechef/backend/internal/logger"
	"github.com/pageza/fridgechef/backend/internal/models"
)

// RunMigrations creates or updates every table. On postgres the pgvector
// extension is enabled first so recipe embeddings have a column type.
func RunMigrations(db *gorm.DB) error {
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
			return fmt.Errorf("failed to enable pgvector extension: %w", err)
		}
	} else {
		logger.Info("Using GORM auto-migration for " + db.Dialector.Name())
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
