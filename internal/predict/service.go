package predict

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/WillianTomaz/magfi/internal/models"
	"github.com/WillianTomaz/magfi/internal/repository"
	"github.com/WillianTomaz/magfi/internal/signal"
)

var (
	ErrUnknownTicker    = errors.New("unknown ticker")
	ErrInsufficientData = errors.New("insufficient news data for prediction")
)

// InstrumentSource supplies the tracked assets whose prices anchor each
// forecast. In a split deployment this is the core service over HTTP; by
// default it is this process itself.
type InstrumentSource interface {
	FetchAssets(ctx context.Context) ([]models.Asset, error)
	FetchAsset(ctx context.Context, ticker string) (*models.Asset, error)
}

// AnalysisSource supplies classified news for a ticker, most recent first.
type AnalysisSource interface {
	FetchAnalyzedNews(ctx context.Context, ticker string, limit int) ([]models.NewsAnalysis, error)
}

// Result is the API view of one stored forecast.
type Result struct {
	Ticker          string          `json:"ticker"`
	CurrentPrice    decimal.Decimal `json:"current_price"`
	PredictedPrice  decimal.Decimal `json:"predicted_price"`
	ChangePct       decimal.Decimal `json:"expected_change_pct"`
	ConfidenceScore float64         `json:"confidence_score"`
	Direction       string          `json:"direction"`
	Sentiment       string          `json:"sentiment"`
	NewsCount       int             `json:"news_count"`
	HorizonDays     int             `json:"horizon_days"`
	PredictionDate  time.Time       `json:"prediction_date"`
	AnalysisSummary string          `json:"analysis_summary"`
}

// Service orchestrates one forecasting pass: fetch the instrument, pull its
// recent analyses, aggregate, compute and persist. Each stored prediction
// snapshots the quote that was current when it ran.
type Service struct {
	Repo     repository.Repository
	Core     InstrumentSource
	Ingestor AnalysisSource
	Logger   *zap.Logger

	TopAssets   int
	HorizonDays int
	NewsLimit   int
}

func (s *Service) PredictTicker(ctx context.Context, ticker string) (*Result, error) {
	asset, err := s.Core.FetchAsset(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("fetch asset %s: %w", ticker, err)
	}
	if asset == nil {
		return nil, ErrUnknownTicker
	}
	return s.predictAsset(ctx, asset)
}

// PredictTop forecasts the first TopAssets tracked assets. Assets without
// enough news are skipped, and a failure on one asset never aborts the rest
// of the batch.
func (s *Service) PredictTop(ctx context.Context) ([]Result, error) {
	assets, err := s.Core.FetchAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch assets: %w", err)
	}
	top := s.TopAssets
	if top <= 0 {
		top = 5
	}
	if len(assets) > top {
		assets = assets[:top]
	}

	out := make([]Result, 0, len(assets))
	for i := range assets {
		res, err := s.predictAsset(ctx, &assets[i])
		if err != nil {
			if !errors.Is(err, ErrInsufficientData) && s.Logger != nil {
				s.Logger.Warn("prediction failed for asset",
					zap.String("ticker", assets[i].Ticker),
					zap.Error(err),
				)
			}
			continue
		}
		out = append(out, *res)
	}
	return out, nil
}

func (s *Service) predictAsset(ctx context.Context, asset *models.Asset) (*Result, error) {
	limit := s.NewsLimit
	if limit <= 0 {
		limit = 100
	}
	analyses, err := s.Ingestor.FetchAnalyzedNews(ctx, asset.Ticker, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch analyses for %s: %w", asset.Ticker, err)
	}

	agg, ok := signal.AggregateByTicker(analyses, asset.Ticker)
	if !ok {
		return nil, ErrInsufficientData
	}

	horizon := s.HorizonDays
	if horizon <= 0 {
		horizon = 7
	}
	fc := Compute(asset.CurrentPrice, agg, horizon)
	now := time.Now().UTC()

	ticker := fc.Ticker
	summary := fc.Summary
	predicted := fc.PredictedPrice
	if err := s.Repo.InsertPrediction(ctx, &models.Prediction{
		Ticker:          &ticker,
		PredictionType:  models.PredictionTypeSentimentBased,
		PredictedPrice:  &predicted,
		ConfidenceScore: fc.Confidence,
		PredictionDate:  now,
		HorizonDays:     fc.HorizonDays,
		AnalysisSummary: &summary,
	}); err != nil {
		return nil, fmt.Errorf("store prediction for %s: %w", ticker, err)
	}

	return &Result{
		Ticker:          fc.Ticker,
		CurrentPrice:    fc.CurrentPrice,
		PredictedPrice:  fc.PredictedPrice,
		ChangePct:       fc.ChangePct,
		ConfidenceScore: fc.Confidence,
		Direction:       fc.Direction,
		Sentiment:       fc.Sentiment,
		NewsCount:       fc.NewsCount,
		HorizonDays:     fc.HorizonDays,
		PredictionDate:  now,
		AnalysisSummary: fc.Summary,
	}, nil
}
