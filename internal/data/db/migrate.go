package db

import (
	"gorm.io/gorm"

	"github.com/appback/lottoguide-api/internal/domain/draws"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&draws.Draw{},
		&draws.NumberMetric{},
	)
}
