package peers

import (
	"context"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/WillianTomaz/magfi/internal/models"
)

// CoreClient reads tracked instruments from the core market API.
type CoreClient struct {
	baseClient
	logger *zap.Logger
}

func NewCoreClient(httpClient *http.Client, host string, logger *zap.Logger) *CoreClient {
	return &CoreClient{baseClient: newBaseClient(httpClient, host), logger: logger}
}

// FetchAssets lists the tracked assets. A peer failure degrades to an empty
// list so a prediction batch proceeds with nothing rather than aborting.
func (c *CoreClient) FetchAssets(ctx context.Context) ([]models.Asset, error) {
	var assets []models.Asset
	if err := c.getJSON(ctx, "/api/v1/market/assets", nil, &assets); err != nil {
		if c.logger != nil {
			c.logger.Warn("asset fetch degraded to empty", zap.Error(err))
		}
		return nil, nil
	}
	return assets, nil
}

// FetchAsset returns one asset by ticker, or nil when the peer does not know
// it.
func (c *CoreClient) FetchAsset(ctx context.Context, ticker string) (*models.Asset, error) {
	query := url.Values{}
	query.Set("tickerSymbol", ticker)

	var asset models.Asset
	if err := c.getJSON(ctx, "/api/v1/market/asset", query, &asset); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &asset, nil
}
