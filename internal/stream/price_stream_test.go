package stream

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/WillianTomaz/magfi/internal/models"
	"github.com/WillianTomaz/magfi/internal/repository"
)

type stubRepo struct {
	repository.Repository

	asset    *models.Asset
	currency *models.Currency
	saved    []decimal.Decimal
	recorded []decimal.Decimal
}

func (s *stubRepo) GetAssetByTicker(ctx context.Context, ticker string) (*models.Asset, error) {
	if s.asset != nil && s.asset.Ticker == ticker {
		return s.asset, nil
	}
	return nil, nil
}

func (s *stubRepo) SaveAsset(ctx context.Context, item *models.Asset) error {
	s.saved = append(s.saved, item.CurrentPrice)
	return nil
}

func (s *stubRepo) RecordAssetPrice(ctx context.Context, assetID uint64, price decimal.Decimal) error {
	s.recorded = append(s.recorded, price)
	return nil
}

func (s *stubRepo) GetCurrencyByCode(ctx context.Context, code string) (*models.Currency, error) {
	if s.currency != nil && s.currency.Code == code {
		return s.currency, nil
	}
	return nil, nil
}

func (s *stubRepo) SaveCurrency(ctx context.Context, item *models.Currency) error {
	s.saved = append(s.saved, item.CurrentPrice)
	return nil
}

func (s *stubRepo) RecordCurrencyPrice(ctx context.Context, currencyID uint64, price decimal.Decimal) error {
	s.recorded = append(s.recorded, price)
	return nil
}

func TestApplyUpdatesAssetAndHistory(t *testing.T) {
	repo := &stubRepo{asset: &models.Asset{ID: 1, Ticker: "PETR4", CurrentPrice: decimal.NewFromInt(30)}}
	s := New(repo, Options{URL: "wss://quotes.example.com"})

	err := s.Apply(context.Background(), Tick{Ticker: "petr4", Price: decimal.RequireFromString("38.51")})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(repo.saved) != 1 || !repo.saved[0].Equal(decimal.RequireFromString("38.51")) {
		t.Fatalf("asset price not updated: %v", repo.saved)
	}
	if len(repo.recorded) != 1 {
		t.Fatalf("expected 1 history row, got %d", len(repo.recorded))
	}
}

func TestApplyRoutesCurrencyTicks(t *testing.T) {
	repo := &stubRepo{currency: &models.Currency{ID: 2, Code: "USD", CurrentPrice: decimal.NewFromInt(5)}}
	s := New(repo, Options{URL: "wss://quotes.example.com"})

	err := s.Apply(context.Background(), Tick{Ticker: "usd", Kind: models.KindCurrency, Price: decimal.RequireFromString("5.43")})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(repo.saved) != 1 || len(repo.recorded) != 1 {
		t.Fatalf("currency tick not written through: saved=%v recorded=%v", repo.saved, repo.recorded)
	}
}

func TestApplyDropsUnknownInstrument(t *testing.T) {
	repo := &stubRepo{}
	s := New(repo, Options{URL: "wss://quotes.example.com"})

	if err := s.Apply(context.Background(), Tick{Ticker: "NOPE", Price: decimal.NewFromInt(1)}); err != nil {
		t.Fatalf("unknown ticker must be dropped silently, got %v", err)
	}
	if len(repo.saved) != 0 {
		t.Fatal("nothing should be saved for unknown tickers")
	}
}

func TestApplyRejectsBadTicks(t *testing.T) {
	s := New(&stubRepo{}, Options{URL: "wss://quotes.example.com"})

	if err := s.Apply(context.Background(), Tick{Price: decimal.NewFromInt(1)}); err == nil {
		t.Fatal("expected error for missing ticker")
	}
	if err := s.Apply(context.Background(), Tick{Ticker: "PETR4", Price: decimal.NewFromInt(-1)}); err == nil {
		t.Fatal("expected error for negative price")
	}
}

func TestSleepWithJitterTinyBase(t *testing.T) {
	for _, base := range []time.Duration{0, 1, time.Nanosecond} {
		if err := sleepWithJitter(context.Background(), base); err != nil {
			t.Fatalf("sleepWithJitter(%v): %v", base, err)
		}
	}
}
