package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/WillianTomaz/magfi/internal/models"
)

type ListNewsAnalysesParams struct {
	Ticker *string
	Since  *time.Time
	Limit  int
	Offset int
}

type ListNewsRawParams struct {
	Limit           int
	UnprocessedOnly bool
}

type ListPredictionsParams struct {
	Ticker *string
	Since  *time.Time
	Limit  int
}

// Repository is the persistence boundary for the whole service. The
// pipeline only assumes per-row atomic writes; there is no transaction
// spanning multiple instruments.
type Repository interface {
	// Instrument store: assets.
	CreateAsset(ctx context.Context, item *models.Asset) error
	SaveAsset(ctx context.Context, item *models.Asset) error
	GetAssetByTicker(ctx context.Context, ticker string) (*models.Asset, error)
	ListAssets(ctx context.Context, activeOnly bool) ([]models.Asset, error)
	ListDropAlertAssets(ctx context.Context) ([]models.Asset, error)
	DeactivateAsset(ctx context.Context, ticker string) (bool, error)
	RecordAssetPrice(ctx context.Context, assetID uint64, price decimal.Decimal) error

	// Instrument store: currencies.
	CreateCurrency(ctx context.Context, item *models.Currency) error
	SaveCurrency(ctx context.Context, item *models.Currency) error
	GetCurrencyByCode(ctx context.Context, code string) (*models.Currency, error)
	ListCurrencies(ctx context.Context, activeOnly bool) ([]models.Currency, error)
	ListDropAlertCurrencies(ctx context.Context) ([]models.Currency, error)
	DeactivateCurrency(ctx context.Context, code string) (bool, error)
	RecordCurrencyPrice(ctx context.Context, currencyID uint64, price decimal.Decimal) error

	// Signal store: raw articles.
	InsertNewsRaw(ctx context.Context, item *models.NewsRaw) error
	MarkNewsProcessed(ctx context.Context, id uint64) error
	ListNewsRaw(ctx context.Context, params ListNewsRawParams) ([]models.NewsRaw, error)

	// Signal store: analyses.
	InsertNewsAnalysis(ctx context.Context, item *models.NewsAnalysis) error
	ListNewsAnalyses(ctx context.Context, params ListNewsAnalysesParams) ([]models.NewsAnalysis, error)

	// Predictions (append-only).
	InsertPrediction(ctx context.Context, item *models.Prediction) error
	ListPredictions(ctx context.Context, params ListPredictionsParams) ([]models.Prediction, error)

	// Feed source health.
	UpsertFeedSource(ctx context.Context, item *models.FeedSource) error
	ListFeedSources(ctx context.Context) ([]models.FeedSource, error)

	// Dimension plumbing.
	CreateAccount(ctx context.Context, item *models.Account) error
	SaveAccount(ctx context.Context, item *models.Account) error
	GetAccountByID(ctx context.Context, id uint64) (*models.Account, error)
	ListAccounts(ctx context.Context, activeOnly bool) ([]models.Account, error)
	DeactivateAccount(ctx context.Context, id uint64) (bool, error)

	// Portfolio and dividends.
	ListPortfolioPositions(ctx context.Context, accountID uint64) ([]models.PortfolioPosition, error)
	ListDividends(ctx context.Context) ([]models.Dividend, error)

	UpsertConfigEntry(ctx context.Context, name string, value *string) (*models.ConfigEntry, error)
	GetConfigEntry(ctx context.Context, name string) (*models.ConfigEntry, error)
	ListConfigEntries(ctx context.Context) ([]models.ConfigEntry, error)
}
