package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID                  uint64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name                string           `gorm:"type:varchar(255);not null" json:"account_name"`
	IsInvestmentAccount bool             `gorm:"not null;default:false" json:"is_investment_account"`
	IsPayrollAccount    bool             `gorm:"not null;default:false" json:"is_payroll_account"`
	TotalInvested       *decimal.Decimal `gorm:"type:numeric(15,4)" json:"total_invested"`
	MonthlySalary       *decimal.Decimal `gorm:"type:numeric(15,4)" json:"monthly_salary"`
	CheckingBalance     *decimal.Decimal `gorm:"type:numeric(15,4)" json:"checking_account_balance"`
	DefaultCurrency     string           `gorm:"type:varchar(3);not null;default:'BRL'" json:"default_currency"`

	IsActive  bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (Account) TableName() string {
	return "dim_account"
}
