package gormrepository

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/WillianTomaz/magfi/internal/models"
	"github.com/WillianTomaz/magfi/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 1000 {
		return 1000
	}
	return limit
}

// --- assets -----------------------------------------------------------------

func (s *Store) CreateAsset(ctx context.Context, item *models.Asset) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	item.Ticker = strings.ToUpper(strings.TrimSpace(item.Ticker))
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) SaveAsset(ctx context.Context, item *models.Asset) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *Store) GetAssetByTicker(ctx context.Context, ticker string) (*models.Asset, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Asset
	err := s.db.WithContext(ctx).
		Where("ticker = ?", strings.ToUpper(strings.TrimSpace(ticker))).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListAssets(ctx context.Context, activeOnly bool) ([]models.Asset, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Asset{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var items []models.Asset
	if err := query.Order("ticker asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListDropAlertAssets(ctx context.Context) ([]models.Asset, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Asset
	err := s.db.WithContext(ctx).
		Where("drop_alert_enabled = ?", true).
		Where("target_price IS NOT NULL").
		Where("is_active = ?", true).
		Order("ticker asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) DeactivateAsset(ctx context.Context, ticker string) (bool, error) {
	if s == nil || s.db == nil {
		return false, nil
	}
	res := s.db.WithContext(ctx).
		Model(&models.Asset{}).
		Where("ticker = ?", strings.ToUpper(strings.TrimSpace(ticker))).
		Update("is_active", false)
	return res.RowsAffected > 0, res.Error
}

func (s *Store) RecordAssetPrice(ctx context.Context, assetID uint64, price decimal.Decimal) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(&models.AssetPriceHistory{
		AssetID: assetID,
		Price:   price,
	}).Error
}

// --- currencies -------------------------------------------------------------

func (s *Store) CreateCurrency(ctx context.Context, item *models.Currency) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	item.Code = strings.ToUpper(strings.TrimSpace(item.Code))
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) SaveCurrency(ctx context.Context, item *models.Currency) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *Store) GetCurrencyByCode(ctx context.Context, code string) (*models.Currency, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Currency
	err := s.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListCurrencies(ctx context.Context, activeOnly bool) ([]models.Currency, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Currency{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var items []models.Currency
	if err := query.Order("code asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListDropAlertCurrencies(ctx context.Context) ([]models.Currency, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Currency
	err := s.db.WithContext(ctx).
		Where("drop_alert_enabled = ?", true).
		Where("target_price IS NOT NULL").
		Where("is_active = ?", true).
		Order("code asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) DeactivateCurrency(ctx context.Context, code string) (bool, error) {
	if s == nil || s.db == nil {
		return false, nil
	}
	res := s.db.WithContext(ctx).
		Model(&models.Currency{}).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		Update("is_active", false)
	return res.RowsAffected > 0, res.Error
}

func (s *Store) RecordCurrencyPrice(ctx context.Context, currencyID uint64, price decimal.Decimal) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(&models.CurrencyPriceHistory{
		CurrencyID: currencyID,
		Price:      price,
	}).Error
}

// --- news -------------------------------------------------------------------

func (s *Store) InsertNewsRaw(ctx context.Context, item *models.NewsRaw) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) MarkNewsProcessed(ctx context.Context, id uint64) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.NewsRaw{}).
		Where("id = ?", id).
		Update("is_processed", true).Error
}

func (s *Store) ListNewsRaw(ctx context.Context, params repository.ListNewsRawParams) ([]models.NewsRaw, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.NewsRaw{})
	if params.UnprocessedOnly {
		query = query.Where("is_processed = ?", false)
	}
	limit := normalizeLimit(params.Limit, 100)
	var items []models.NewsRaw
	if err := query.Order("created_at desc").Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) InsertNewsAnalysis(ctx context.Context, item *models.NewsAnalysis) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	if item.Ticker != nil {
		t := strings.ToUpper(strings.TrimSpace(*item.Ticker))
		if t == "" {
			item.Ticker = nil
		} else {
			item.Ticker = &t
		}
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListNewsAnalyses(ctx context.Context, params repository.ListNewsAnalysesParams) ([]models.NewsAnalysis, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.NewsAnalysis{})
	if params.Ticker != nil && strings.TrimSpace(*params.Ticker) != "" {
		query = query.Where("ticker = ?", strings.ToUpper(strings.TrimSpace(*params.Ticker)))
	}
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("created_at >= ?", *params.Since)
	}
	limit := normalizeLimit(params.Limit, 100)
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}
	var items []models.NewsAnalysis
	if err := query.Order("created_at desc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- predictions ------------------------------------------------------------

func (s *Store) InsertPrediction(ctx context.Context, item *models.Prediction) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	if item.Ticker != nil {
		t := strings.ToUpper(strings.TrimSpace(*item.Ticker))
		item.Ticker = &t
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListPredictions(ctx context.Context, params repository.ListPredictionsParams) ([]models.Prediction, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Prediction{})
	if params.Ticker != nil && strings.TrimSpace(*params.Ticker) != "" {
		query = query.Where("ticker = ?", strings.ToUpper(strings.TrimSpace(*params.Ticker)))
	}
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("created_at >= ?", *params.Since)
	}
	limit := normalizeLimit(params.Limit, 100)
	var items []models.Prediction
	if err := query.Order("created_at desc").Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- feed sources -----------------------------------------------------------

func (s *Store) UpsertFeedSource(ctx context.Context, item *models.FeedSource) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	if strings.TrimSpace(item.URL) == "" {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "url"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"enabled",
			"last_poll_at",
			"last_error",
			"health_status",
			"config",
			"updated_at",
		}),
	}).Create(item).Error
}

func (s *Store) ListFeedSources(ctx context.Context) ([]models.FeedSource, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.FeedSource
	if err := s.db.WithContext(ctx).
		Model(&models.FeedSource{}).
		Order("url asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- accounts ---------------------------------------------------------------

func (s *Store) CreateAccount(ctx context.Context, item *models.Account) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) SaveAccount(ctx context.Context, item *models.Account) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *Store) GetAccountByID(ctx context.Context, id uint64) (*models.Account, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Account
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListAccounts(ctx context.Context, activeOnly bool) ([]models.Account, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Account{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var items []models.Account
	if err := query.Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) DeactivateAccount(ctx context.Context, id uint64) (bool, error) {
	if s == nil || s.db == nil {
		return false, nil
	}
	res := s.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Update("is_active", false)
	return res.RowsAffected > 0, res.Error
}

func (s *Store) ListPortfolioPositions(ctx context.Context, accountID uint64) ([]models.PortfolioPosition, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.PortfolioPosition{})
	if accountID != 0 {
		query = query.Where("account_id = ?", accountID)
	}
	var items []models.PortfolioPosition
	if err := query.Order("acquisition_date asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListDividends(ctx context.Context) ([]models.Dividend, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Dividend
	if err := s.db.WithContext(ctx).
		Model(&models.Dividend{}).
		Order("payment_date desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- config entries ---------------------------------------------------------

func (s *Store) UpsertConfigEntry(ctx context.Context, name string, value *string) (*models.ConfigEntry, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	item := models.ConfigEntry{Name: name, Value: value}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetConfigEntry(ctx context.Context, name string) (*models.ConfigEntry, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.ConfigEntry
	err := s.db.WithContext(ctx).Where("name = ?", strings.TrimSpace(name)).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListConfigEntries(ctx context.Context) ([]models.ConfigEntry, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.ConfigEntry
	if err := s.db.WithContext(ctx).
		Model(&models.ConfigEntry{}).
		Order("name asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
