package migrations

import (
	"github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/models"
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.CheckoutSession{})
}
