package migration

import (
	"fulfillment-wms/models"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.TransactionHistory{},
	)
}
