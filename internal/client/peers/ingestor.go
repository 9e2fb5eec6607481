package peers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/WillianTomaz/magfi/internal/models"
)

// IngestorClient reads classified news from the ingestion API.
type IngestorClient struct {
	baseClient
	logger *zap.Logger
}

func NewIngestorClient(httpClient *http.Client, host string, logger *zap.Logger) *IngestorClient {
	return &IngestorClient{baseClient: newBaseClient(httpClient, host), logger: logger}
}

// FetchAnalyzedNews lists the most recent analyses for a ticker. A peer
// failure degrades to an empty list; the caller then reports insufficient
// data instead of an outage.
func (c *IngestorClient) FetchAnalyzedNews(ctx context.Context, ticker string, limit int) ([]models.NewsAnalysis, error) {
	query := url.Values{}
	if ticker != "" {
		query.Set("ticker", ticker)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var analyses []models.NewsAnalysis
	if err := c.getJSON(ctx, "/api/v1/ingest/news/analyzed", query, &analyses); err != nil {
		if c.logger != nil {
			c.logger.Warn("analyzed news fetch degraded to empty",
				zap.String("ticker", ticker),
				zap.Error(err),
			)
		}
		return nil, nil
	}
	return analyses, nil
}
