package db

import (
	"eventradar/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.Category{},
		&models.Event{},
		&models.AvailabilityHistory{},
		&models.ProviderHealth{},
		&models.Alert{},
	)
}
