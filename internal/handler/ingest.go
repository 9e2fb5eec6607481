package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/WillianTomaz/magfi/internal/ingest"
	"github.com/WillianTomaz/magfi/internal/repository"
)

// IngestHandler exposes the news pipeline: trigger a cycle, inspect staged
// and classified articles, and sweep leftovers.
type IngestHandler struct {
	Service *ingest.Service
	Repo    repository.Repository
	Logger  *zap.Logger
}

func (h *IngestHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/ingest")
	group.POST("/news", h.runCycle)
	group.POST("/news/reprocess", h.reprocess)
	group.GET("/news/raw", h.listRaw)
	group.GET("/news/analyzed", h.listAnalyzed)
	group.GET("/feeds", h.listFeeds)
}

// @Summary Run one ingestion cycle now
// @Tags ingest
// @Success 200 {object} apiResponse
// @Router /api/v1/ingest/news [post]
func (h *IngestHandler) runCycle(c *gin.Context) {
	if h.Service == nil {
		Fail(c, http.StatusServiceUnavailable, "ingestion disabled")
		return
	}
	summary := h.Service.Run(c.Request.Context())
	Ok(c, summary, "ingestion cycle finished")
}

// @Summary Re-analyze staged articles that never got an analysis
// @Tags ingest
// @Param limit query int false "max articles to sweep"
// @Success 200 {object} apiResponse
// @Router /api/v1/ingest/news/reprocess [post]
func (h *IngestHandler) reprocess(c *gin.Context) {
	if h.Service == nil {
		Fail(c, http.StatusServiceUnavailable, "ingestion disabled")
		return
	}
	limit := intQuery(c, "limit", 100)
	n, err := h.Service.ReprocessUnprocessed(c.Request.Context(), limit)
	if err != nil {
		Fail(c, http.StatusBadGateway, err.Error())
		return
	}
	Ok(c, gin.H{"reprocessed": n}, "")
}

// @Summary List staged raw articles
// @Tags ingest
// @Param limit query int false "page size"
// @Param unprocessed query bool false "only articles without an analysis"
// @Success 200 {object} apiResponse
// @Router /api/v1/ingest/news/raw [get]
func (h *IngestHandler) listRaw(c *gin.Context) {
	if h.Repo == nil {
		Fail(c, http.StatusInternalServerError, "repo unavailable")
		return
	}
	items, err := h.Repo.ListNewsRaw(c.Request.Context(), repository.ListNewsRawParams{
		Limit:           intQuery(c, "limit", 50),
		UnprocessedOnly: boolQueryDefault(c, "unprocessed", false),
	})
	if err != nil {
		Fail(c, http.StatusBadGateway, err.Error())
		return
	}
	Ok(c, items, "")
}

// @Summary List classified articles
// @Tags ingest
// @Param ticker query string false "filter by ticker"
// @Param limit query int false "page size"
// @Param offset query int false "page offset"
// @Success 200 {object} apiResponse
// @Router /api/v1/ingest/news/analyzed [get]
func (h *IngestHandler) listAnalyzed(c *gin.Context) {
	if h.Repo == nil {
		Fail(c, http.StatusInternalServerError, "repo unavailable")
		return
	}
	var tickerPtr *string
	if ticker := strings.ToUpper(strings.TrimSpace(c.Query("ticker"))); ticker != "" {
		tickerPtr = &ticker
	}
	items, err := h.Repo.ListNewsAnalyses(c.Request.Context(), repository.ListNewsAnalysesParams{
		Ticker: tickerPtr,
		Limit:  intQuery(c, "limit", 50),
		Offset: intQuery(c, "offset", 0),
	})
	if err != nil {
		Fail(c, http.StatusBadGateway, err.Error())
		return
	}
	Ok(c, items, "")
}

// @Summary List feed sources and their collection health
// @Tags ingest
// @Success 200 {object} apiResponse
// @Router /api/v1/ingest/feeds [get]
func (h *IngestHandler) listFeeds(c *gin.Context) {
	if h.Repo == nil {
		Fail(c, http.StatusInternalServerError, "repo unavailable")
		return
	}
	items, err := h.Repo.ListFeedSources(c.Request.Context())
	if err != nil {
		Fail(c, http.StatusBadGateway, err.Error())
		return
	}
	Ok(c, items, "")
}
