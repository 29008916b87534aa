package database

import (
	"fmt"

	"gorm.io/gorm"
)

// Migrate creates or updates the tables backing the given models.
// Models are migrated in order, so referenced tables must come first.
func Migrate(db *gorm.DB, models ...any) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", m, err)
		}
	}
	return nil
}
