// Package predict turns per-ticker sentiment aggregates into short-horizon
// price forecasts.
package predict

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/WillianTomaz/magfi/internal/models"
	"github.com/WillianTomaz/magfi/internal/signal"
)

const (
	DirectionUp   = "up"
	DirectionDown = "down"
	DirectionFlat = "flat"
)

// Forecast is one computed price projection before persistence.
type Forecast struct {
	Ticker         string
	CurrentPrice   decimal.Decimal
	PredictedPrice decimal.Decimal
	ChangePct      decimal.Decimal
	Confidence     float64
	Direction      string
	Sentiment      string
	NewsCount      int
	HorizonDays    int
	Summary        string
}

var (
	two     = decimal.NewFromInt(2)
	hundred = decimal.NewFromInt(100)
)

// Compute applies the sentiment model to one current quote:
//
//	change% = direction * avgImpact * 2
//	predicted = current * (1 + change%/100)
//
// where direction is +1 for positive, -1 for negative and 0 for neutral
// overall sentiment. Confidence is the average impact score itself. Neutral
// sentiment therefore predicts the current price unchanged, and the
// projected move is always within ±2% because impact is clamped to [0,1].
func Compute(current decimal.Decimal, agg signal.Aggregate, horizonDays int) Forecast {
	direction := decimal.Zero
	label := DirectionFlat
	switch agg.Sentiment {
	case models.SentimentPositive:
		direction = decimal.NewFromInt(1)
		label = DirectionUp
	case models.SentimentNegative:
		direction = decimal.NewFromInt(-1)
		label = DirectionDown
	}

	changePct := direction.
		Mul(decimal.NewFromFloat(agg.AvgImpactScore)).
		Mul(two).
		Round(4)
	predicted := current.
		Mul(decimal.NewFromInt(1).Add(changePct.Div(hundred))).
		Round(4)

	return Forecast{
		Ticker:         agg.Ticker,
		CurrentPrice:   current,
		PredictedPrice: predicted,
		ChangePct:      changePct,
		Confidence:     agg.AvgImpactScore,
		Direction:      label,
		Sentiment:      agg.Sentiment,
		NewsCount:      agg.NewsCount,
		HorizonDays:    horizonDays,
		Summary: fmt.Sprintf("%s sentiment across %d news items, expected change %s%% over %d days",
			agg.Sentiment, agg.NewsCount, changePct.StringFixed(2), horizonDays),
	}
}
