package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const PredictionTypeSentimentBased = "sentiment_based"

// Prediction is append-only; rows are never updated or deleted, the table is
// the audit trail of every forecast the engine ever produced.
type Prediction struct {
	ID              uint64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Ticker          *string          `gorm:"type:varchar(20);index" json:"asset_ticker"`
	PredictionType  string           `gorm:"type:varchar(50);not null" json:"prediction_type"`
	PredictedPrice  *decimal.Decimal `gorm:"type:numeric(15,4)" json:"predicted_price"`
	ConfidenceScore float64          `gorm:"not null" json:"confidence_score"`
	PredictionDate  time.Time        `gorm:"type:timestamptz;not null" json:"prediction_date"`
	HorizonDays     int              `gorm:"not null;default:0" json:"horizon_days"`
	AnalysisSummary *string          `gorm:"type:text" json:"analysis_summary"`
	CreatedAt       time.Time        `gorm:"type:timestamptz;autoCreateTime;index" json:"created_at"`
}

func (Prediction) TableName() string {
	return "fct_prediction"
}
