package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Asset struct {
	ID           uint64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Ticker       string           `gorm:"type:varchar(20);uniqueIndex;not null" json:"ticker_symbol"`
	Name         string           `gorm:"type:varchar(255);not null" json:"asset_name"`
	CurrencyCode string           `gorm:"type:varchar(3);not null" json:"currency_code"`
	CurrentPrice decimal.Decimal  `gorm:"type:numeric(15,4);not null" json:"current_price"`
	TargetPrice  *decimal.Decimal `gorm:"type:numeric(15,4)" json:"target_price"`

	DropAlertEnabled bool     `gorm:"not null;default:false" json:"drop_alert_enabled"`
	TargetGapPct     *float64 `json:"target_gap_percentage"`
	TimeToBuy        bool     `gorm:"not null;default:false" json:"time_to_buy"`

	Sector    *string  `gorm:"type:varchar(100)" json:"sector"`
	PLRatio   *float64 `json:"pl_ratio"`
	PVPARatio *float64 `json:"pvpa_ratio"`

	IsActive  bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (Asset) TableName() string {
	return "dim_asset"
}

func (a *Asset) InstrumentTicker() string      { return a.Ticker }
func (a *Asset) InstrumentName() string        { return a.Name }
func (a *Asset) CurrentQuote() decimal.Decimal { return a.CurrentPrice }
func (a *Asset) TargetQuote() *decimal.Decimal { return a.TargetPrice }
func (a *Asset) AlertEnabled() bool            { return a.DropAlertEnabled }
func (a *Asset) Kind() string                  { return KindAsset }

type AssetPriceHistory struct {
	ID         uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	AssetID    uint64          `gorm:"not null;index" json:"asset_id"`
	Price      decimal.Decimal `gorm:"type:numeric(15,4);not null" json:"price"`
	RecordedAt time.Time       `gorm:"type:timestamptz;autoCreateTime;index" json:"recorded_at"`
}

func (AssetPriceHistory) TableName() string {
	return "fct_asset_price_history"
}
