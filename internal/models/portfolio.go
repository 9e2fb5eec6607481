package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PortfolioPosition is one holding of an asset inside an account.
type PortfolioPosition struct {
	ID              uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID       uint64          `gorm:"not null;index" json:"account_id"`
	AssetID         uint64          `gorm:"not null;index" json:"asset_id"`
	Quantity        decimal.Decimal `gorm:"type:numeric(20,8);not null" json:"quantity"`
	AverageCost     decimal.Decimal `gorm:"type:numeric(15,4);not null" json:"average_cost"`
	AcquisitionDate time.Time       `gorm:"type:timestamptz;not null" json:"acquisition_date"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (PortfolioPosition) TableName() string {
	return "fct_portfolio_position"
}

// Dividend is one distribution paid by an asset.
type Dividend struct {
	ID             uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	AssetID        uint64          `gorm:"not null;index" json:"asset_id"`
	Amount         decimal.Decimal `gorm:"type:numeric(15,4);not null" json:"dividend_amount"`
	DividendType   string          `gorm:"type:varchar(50);not null" json:"dividend_type"`
	ExDividendDate time.Time       `gorm:"type:timestamptz;not null" json:"ex_dividend_date"`
	PaymentDate    time.Time       `gorm:"type:timestamptz;not null" json:"payment_date"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"created_at"`
}

func (Dividend) TableName() string {
	return "fct_dividend"
}
