package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Currency struct {
	ID           uint64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Code         string           `gorm:"type:varchar(3);uniqueIndex;not null" json:"currency_code"`
	Name         string           `gorm:"type:varchar(100);not null" json:"currency_name"`
	BaseCurrency string           `gorm:"type:varchar(3);not null;default:'BRL'" json:"base_currency"`
	CurrentPrice decimal.Decimal  `gorm:"type:numeric(15,4);not null" json:"current_price"`
	TargetPrice  *decimal.Decimal `gorm:"type:numeric(15,4)" json:"target_price"`

	DropAlertEnabled bool `gorm:"not null;default:false" json:"drop_alert_enabled"`
	TimeToBuy        bool `gorm:"not null;default:false" json:"time_to_buy"`

	IsActive  bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (Currency) TableName() string {
	return "dim_currency"
}

func (c *Currency) InstrumentTicker() string      { return c.Code }
func (c *Currency) InstrumentName() string        { return c.Name }
func (c *Currency) CurrentQuote() decimal.Decimal { return c.CurrentPrice }
func (c *Currency) TargetQuote() *decimal.Decimal { return c.TargetPrice }
func (c *Currency) AlertEnabled() bool            { return c.DropAlertEnabled }
func (c *Currency) Kind() string                  { return KindCurrency }

type CurrencyPriceHistory struct {
	ID         uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	CurrencyID uint64          `gorm:"not null;index" json:"currency_id"`
	Price      decimal.Decimal `gorm:"type:numeric(15,4);not null" json:"price"`
	RecordedAt time.Time       `gorm:"type:timestamptz;autoCreateTime;index" json:"recorded_at"`
}

func (CurrencyPriceHistory) TableName() string {
	return "fct_currency_price_history"
}
