// Package alert implements the buy-window rule applied to tracked
// instruments: an instrument qualifies when its current quote is at or
// below its configured target.
package alert

import (
	"github.com/shopspring/decimal"

	"github.com/WillianTomaz/magfi/internal/models"
)

// Evaluation is the alert view of one qualifying instrument.
type Evaluation struct {
	Ticker       string          `json:"ticker"`
	Name         string          `json:"name"`
	Kind         string          `json:"kind"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	TargetPrice  decimal.Decimal `json:"target_price"`
	GapPct       float64         `json:"gap_pct"`
	TimeToBuy    bool            `json:"time_to_buy"`
}

// Evaluate applies the buy rule to one instrument. Returns ok=false when the
// instrument does not qualify: alerting disabled, no target configured, or
// current quote still above target. Evaluation is a pure read; calling it
// twice on the same instrument yields the same answer.
func Evaluate(inst models.Instrument) (Evaluation, bool) {
	if inst == nil || !inst.AlertEnabled() {
		return Evaluation{}, false
	}
	target := inst.TargetQuote()
	if target == nil {
		return Evaluation{}, false
	}

	current := inst.CurrentQuote()
	if current.GreaterThan(*target) {
		return Evaluation{}, false
	}

	// gap = (target - current) / current * 100, guarded against a zero quote.
	gap := 0.0
	if current.IsPositive() {
		gap, _ = target.Sub(current).
			Div(current).
			Mul(decimal.NewFromInt(100)).
			Round(2).
			Float64()
	}

	return Evaluation{
		Ticker:       inst.InstrumentTicker(),
		Name:         inst.InstrumentName(),
		Kind:         inst.Kind(),
		CurrentPrice: current,
		TargetPrice:  *target,
		GapPct:       gap,
		TimeToBuy:    true,
	}, true
}

// EvaluateAll filters instruments down to the qualifying ones.
func EvaluateAll(instruments []models.Instrument) []Evaluation {
	out := make([]Evaluation, 0, len(instruments))
	for _, inst := range instruments {
		if ev, ok := Evaluate(inst); ok {
			out = append(out, ev)
		}
	}
	return out
}
