package db

import (
	"github.com/WillianTomaz/magfi/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.ConfigEntry{},
		&models.Account{},
		&models.Asset{},
		&models.AssetPriceHistory{},
		&models.PortfolioPosition{},
		&models.Dividend{},
		&models.Currency{},
		&models.CurrencyPriceHistory{},
		&models.FeedSource{},
		&models.NewsRaw{},
		&models.NewsAnalysis{},
		&models.Prediction{},
	)
}
