package predict

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/WillianTomaz/magfi/internal/models"
	"github.com/WillianTomaz/magfi/internal/repository"
	"github.com/WillianTomaz/magfi/internal/signal"
)

func TestComputePositiveSentimentRaisesPrice(t *testing.T) {
	fc := Compute(decimal.NewFromInt(100), signal.Aggregate{
		Ticker:         "PETR4",
		Sentiment:      models.SentimentPositive,
		AvgImpactScore: 0.5,
		NewsCount:      3,
	}, 7)

	if !fc.ChangePct.Equal(decimal.NewFromFloat(1.0)) {
		t.Fatalf("expected +1%% change, got %s", fc.ChangePct)
	}
	if !fc.PredictedPrice.Equal(decimal.NewFromInt(101)) {
		t.Fatalf("expected 101, got %s", fc.PredictedPrice)
	}
	if fc.Confidence != 0.5 {
		t.Fatalf("confidence must equal avg impact, got %v", fc.Confidence)
	}
	if fc.Direction != DirectionUp {
		t.Fatalf("expected direction up, got %q", fc.Direction)
	}
}

func TestComputeNegativeSentimentLowersPrice(t *testing.T) {
	fc := Compute(decimal.NewFromInt(200), signal.Aggregate{
		Ticker:         "VALE3",
		Sentiment:      models.SentimentNegative,
		AvgImpactScore: 0.75,
	}, 7)

	if !fc.ChangePct.Equal(decimal.NewFromFloat(-1.5)) {
		t.Fatalf("expected -1.5%% change, got %s", fc.ChangePct)
	}
	if !fc.PredictedPrice.Equal(decimal.NewFromInt(197)) {
		t.Fatalf("expected 197, got %s", fc.PredictedPrice)
	}
	if fc.Direction != DirectionDown {
		t.Fatalf("expected direction down, got %q", fc.Direction)
	}
}

func TestComputeNeutralSentimentKeepsPrice(t *testing.T) {
	current := decimal.RequireFromString("42.1234")
	fc := Compute(current, signal.Aggregate{
		Ticker:         "ITUB4",
		Sentiment:      models.SentimentNeutral,
		AvgImpactScore: 0.9,
	}, 7)

	if !fc.ChangePct.IsZero() {
		t.Fatalf("neutral must predict zero change, got %s", fc.ChangePct)
	}
	if !fc.PredictedPrice.Equal(current) {
		t.Fatalf("neutral must keep current price, got %s", fc.PredictedPrice)
	}
	if fc.Direction != DirectionFlat {
		t.Fatalf("expected direction flat, got %q", fc.Direction)
	}
}

func TestComputeChangeStaysWithinBounds(t *testing.T) {
	for _, impact := range []float64{0, 0.25, 0.5, 1} {
		fc := Compute(decimal.NewFromInt(100), signal.Aggregate{
			Ticker:         "PETR4",
			Sentiment:      models.SentimentPositive,
			AvgImpactScore: impact,
		}, 7)
		if fc.ChangePct.Abs().GreaterThan(decimal.NewFromInt(2)) {
			t.Fatalf("impact %v produced out-of-bounds change %s", impact, fc.ChangePct)
		}
	}
}

type stubRepo struct {
	repository.Repository
	inserted []*models.Prediction
	insertFn func(*models.Prediction) error
}

func (s *stubRepo) InsertPrediction(ctx context.Context, item *models.Prediction) error {
	if s.insertFn != nil {
		return s.insertFn(item)
	}
	s.inserted = append(s.inserted, item)
	return nil
}

func (s *stubRepo) ListPredictions(ctx context.Context, params repository.ListPredictionsParams) ([]models.Prediction, error) {
	var out []models.Prediction
	for _, p := range s.inserted {
		if params.Ticker != nil && (p.Ticker == nil || *p.Ticker != *params.Ticker) {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

type stubCore struct {
	assets []models.Asset
	err    error
}

func (s *stubCore) FetchAssets(ctx context.Context) ([]models.Asset, error) {
	return s.assets, s.err
}

func (s *stubCore) FetchAsset(ctx context.Context, ticker string) (*models.Asset, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.assets {
		if s.assets[i].Ticker == ticker {
			return &s.assets[i], nil
		}
	}
	return nil, nil
}

type stubIngestor struct {
	byTicker map[string][]models.NewsAnalysis
}

func (s *stubIngestor) FetchAnalyzedNews(ctx context.Context, ticker string, limit int) ([]models.NewsAnalysis, error) {
	return s.byTicker[ticker], nil
}

func newsFor(ticker, sentiment string, impact float64) []models.NewsAnalysis {
	return []models.NewsAnalysis{{
		Ticker:      &ticker,
		Sentiment:   sentiment,
		ImpactScore: impact,
		AnalyzedAt:  time.Now().UTC(),
	}}
}

func TestPredictTickerPersistsResult(t *testing.T) {
	repo := &stubRepo{}
	svc := &Service{
		Repo:     repo,
		Core:     &stubCore{assets: []models.Asset{{Ticker: "PETR4", CurrentPrice: decimal.NewFromInt(100)}}},
		Ingestor: &stubIngestor{byTicker: map[string][]models.NewsAnalysis{"PETR4": newsFor("PETR4", models.SentimentPositive, 0.5)}},
	}

	res, err := svc.PredictTicker(context.Background(), "PETR4")
	if err != nil {
		t.Fatalf("PredictTicker: %v", err)
	}
	if !res.PredictedPrice.Equal(decimal.NewFromInt(101)) {
		t.Fatalf("unexpected predicted price %s", res.PredictedPrice)
	}
	if res.HorizonDays != 7 {
		t.Fatalf("expected default horizon 7, got %d", res.HorizonDays)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected 1 stored prediction, got %d", len(repo.inserted))
	}
	stored := repo.inserted[0]
	if stored.PredictionType != models.PredictionTypeSentimentBased {
		t.Fatalf("unexpected prediction type %q", stored.PredictionType)
	}
	if stored.Ticker == nil || *stored.Ticker != "PETR4" {
		t.Fatalf("stored ticker wrong: %v", stored.Ticker)
	}
}

func TestPredictionRoundTripByTicker(t *testing.T) {
	repo := &stubRepo{}
	svc := &Service{
		Repo:     repo,
		Core:     &stubCore{assets: []models.Asset{{Ticker: "VALE3", CurrentPrice: decimal.NewFromInt(200)}}},
		Ingestor: &stubIngestor{byTicker: map[string][]models.NewsAnalysis{"VALE3": newsFor("VALE3", models.SentimentNegative, 0.75)}},
	}

	res, err := svc.PredictTicker(context.Background(), "VALE3")
	if err != nil {
		t.Fatalf("PredictTicker: %v", err)
	}

	ticker := "VALE3"
	rows, err := repo.ListPredictions(context.Background(), repository.ListPredictionsParams{Ticker: &ticker})
	if err != nil {
		t.Fatalf("ListPredictions: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 prediction for VALE3, got %d", len(rows))
	}
	got := rows[0]
	if got.PredictedPrice == nil || !got.PredictedPrice.Equal(res.PredictedPrice) {
		t.Fatalf("re-read predicted price %v does not match returned %s", got.PredictedPrice, res.PredictedPrice)
	}
	if got.ConfidenceScore != res.ConfidenceScore {
		t.Fatalf("re-read confidence %v does not match returned %v", got.ConfidenceScore, res.ConfidenceScore)
	}
	if got.HorizonDays != res.HorizonDays {
		t.Fatalf("re-read horizon %d does not match returned %d", got.HorizonDays, res.HorizonDays)
	}
}

func TestPredictTickerUnknown(t *testing.T) {
	svc := &Service{
		Repo:     &stubRepo{},
		Core:     &stubCore{},
		Ingestor: &stubIngestor{},
	}
	if _, err := svc.PredictTicker(context.Background(), "NOPE"); !errors.Is(err, ErrUnknownTicker) {
		t.Fatalf("expected ErrUnknownTicker, got %v", err)
	}
}

func TestPredictTickerInsufficientData(t *testing.T) {
	svc := &Service{
		Repo:     &stubRepo{},
		Core:     &stubCore{assets: []models.Asset{{Ticker: "PETR4", CurrentPrice: decimal.NewFromInt(100)}}},
		Ingestor: &stubIngestor{},
	}
	if _, err := svc.PredictTicker(context.Background(), "PETR4"); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestPredictTopSkipsAssetsWithoutNews(t *testing.T) {
	repo := &stubRepo{}
	svc := &Service{
		Repo: repo,
		Core: &stubCore{assets: []models.Asset{
			{Ticker: "PETR4", CurrentPrice: decimal.NewFromInt(100)},
			{Ticker: "VALE3", CurrentPrice: decimal.NewFromInt(60)},
			{Ticker: "ITUB4", CurrentPrice: decimal.NewFromInt(30)},
		}},
		Ingestor: &stubIngestor{byTicker: map[string][]models.NewsAnalysis{
			"PETR4": newsFor("PETR4", models.SentimentPositive, 0.4),
			"ITUB4": newsFor("ITUB4", models.SentimentNegative, 0.6),
		}},
	}

	results, err := svc.PredictTop(context.Background())
	if err != nil {
		t.Fatalf("PredictTop: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if len(repo.inserted) != 2 {
		t.Fatalf("expected 2 stored predictions, got %d", len(repo.inserted))
	}
}

func TestPredictTopHonorsTopAssetsCap(t *testing.T) {
	assets := make([]models.Asset, 8)
	news := map[string][]models.NewsAnalysis{}
	for i := range assets {
		ticker := string(rune('A'+i)) + "AAA"
		assets[i] = models.Asset{Ticker: ticker, CurrentPrice: decimal.NewFromInt(10)}
		news[ticker] = newsFor(ticker, models.SentimentPositive, 0.3)
	}

	svc := &Service{
		Repo:      &stubRepo{},
		Core:      &stubCore{assets: assets},
		Ingestor:  &stubIngestor{byTicker: news},
		TopAssets: 5,
	}
	results, err := svc.PredictTop(context.Background())
	if err != nil {
		t.Fatalf("PredictTop: %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("expected the batch capped at 5, got %d", len(results))
	}
}
