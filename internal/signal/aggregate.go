// Package signal condenses stored news analyses into per-ticker aggregates
// consumed by the prediction engine.
package signal

import (
	"strings"

	"github.com/WillianTomaz/magfi/internal/models"
)

// Aggregate is the condensed sentiment view for one ticker.
type Aggregate struct {
	Ticker         string
	Sentiment      string
	AvgImpactScore float64
	NewsCount      int
	LatestAnalysis *models.NewsAnalysis
}

// AggregateByTicker folds the analyses matching ticker into one Aggregate.
// The overall sentiment is the most recent item's sentiment rather than a
// majority vote: a fresh reversal should flip the signal immediately even
// against a long tail of stale items. The impact score is the plain mean.
// Returns ok=false when no analysis matches, so callers can distinguish
// "no data" from a genuinely neutral aggregate.
func AggregateByTicker(analyses []models.NewsAnalysis, ticker string) (Aggregate, bool) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return Aggregate{}, false
	}

	var (
		matched []models.NewsAnalysis
		sum     float64
	)
	for _, a := range analyses {
		if a.Ticker == nil || strings.ToUpper(*a.Ticker) != ticker {
			continue
		}
		matched = append(matched, a)
		sum += a.ImpactScore
	}
	if len(matched) == 0 {
		return Aggregate{}, false
	}

	latest := &matched[0]
	for i := 1; i < len(matched); i++ {
		if matched[i].AnalyzedAt.After(latest.AnalyzedAt) {
			latest = &matched[i]
		}
	}

	return Aggregate{
		Ticker:         ticker,
		Sentiment:      latest.Sentiment,
		AvgImpactScore: sum / float64(len(matched)),
		NewsCount:      len(matched),
		LatestAnalysis: latest,
	}, true
}
