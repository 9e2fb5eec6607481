package alert

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/WillianTomaz/magfi/internal/models"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func asset(ticker, current string, target *decimal.Decimal, enabled bool) *models.Asset {
	return &models.Asset{
		Ticker:           ticker,
		Name:             ticker + " corp",
		CurrentPrice:     decimal.RequireFromString(current),
		TargetPrice:      target,
		DropAlertEnabled: enabled,
	}
}

func TestEvaluateBelowTargetQualifies(t *testing.T) {
	ev, ok := Evaluate(asset("PETR4", "90", decPtr("100"), true))
	if !ok {
		t.Fatal("expected instrument below target to qualify")
	}
	if !ev.TimeToBuy {
		t.Fatal("qualifying evaluation must set time_to_buy")
	}
	if ev.GapPct != 11.11 {
		t.Fatalf("expected gap 11.11, got %v", ev.GapPct)
	}
	if ev.Kind != models.KindAsset {
		t.Fatalf("unexpected kind %q", ev.Kind)
	}
}

func TestEvaluateAboveTargetDoesNotQualify(t *testing.T) {
	if _, ok := Evaluate(asset("PETR4", "110", decPtr("100"), true)); ok {
		t.Fatal("instrument above target must not qualify")
	}
}

func TestEvaluateAtTargetQualifies(t *testing.T) {
	ev, ok := Evaluate(asset("PETR4", "100", decPtr("100"), true))
	if !ok {
		t.Fatal("instrument exactly at target must qualify")
	}
	if ev.GapPct != 0 {
		t.Fatalf("expected zero gap at target, got %v", ev.GapPct)
	}
}

func TestEvaluateZeroQuoteYieldsZeroGap(t *testing.T) {
	ev, ok := Evaluate(asset("PETR4", "0", decPtr("100"), true))
	if !ok {
		t.Fatal("zero quote is below target and must qualify")
	}
	if ev.GapPct != 0 {
		t.Fatalf("zero quote must not divide, got gap %v", ev.GapPct)
	}
}

func TestEvaluateSkipsDisabledAndUntargeted(t *testing.T) {
	if _, ok := Evaluate(asset("PETR4", "90", decPtr("100"), false)); ok {
		t.Fatal("disabled alerting must not qualify")
	}
	if _, ok := Evaluate(asset("PETR4", "90", nil, true)); ok {
		t.Fatal("missing target must not qualify")
	}
	if _, ok := Evaluate(nil); ok {
		t.Fatal("nil instrument must not qualify")
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	a := asset("PETR4", "90", decPtr("100"), true)
	first, ok1 := Evaluate(a)
	second, ok2 := Evaluate(a)
	if ok1 != ok2 || first.GapPct != second.GapPct || first.TimeToBuy != second.TimeToBuy {
		t.Fatalf("evaluation changed between calls: %+v vs %+v", first, second)
	}
}

func TestEvaluateAllFiltersAcrossKinds(t *testing.T) {
	target := decPtr("5.00")
	instruments := []models.Instrument{
		asset("PETR4", "90", decPtr("100"), true),
		asset("VALE3", "110", decPtr("100"), true),
		&models.Currency{
			Code:             "USD",
			Name:             "US Dollar",
			CurrentPrice:     decimal.RequireFromString("4.80"),
			TargetPrice:      target,
			DropAlertEnabled: true,
		},
	}

	evs := EvaluateAll(instruments)
	if len(evs) != 2 {
		t.Fatalf("expected 2 qualifying instruments, got %d", len(evs))
	}
	if evs[0].Kind != models.KindAsset || evs[1].Kind != models.KindCurrency {
		t.Fatalf("unexpected kinds: %q, %q", evs[0].Kind, evs[1].Kind)
	}
}
