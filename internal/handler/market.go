package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/WillianTomaz/magfi/internal/alert"
	"github.com/WillianTomaz/magfi/internal/models"
	"github.com/WillianTomaz/magfi/internal/repository"
)

// MarketHandler exposes the read side of the instrument store: asset
// lookups and the buy-window views the dashboard polls.
type MarketHandler struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

func (h *MarketHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/market")
	group.GET("/assets", h.listAssets)
	group.GET("/asset", h.getAsset)
	group.GET("/drop-alert/assets", h.dropAlertAssets)
	group.GET("/drop-alert/currencies", h.dropAlertCurrencies)
	group.GET("/dividend-gains", h.dividendGains)
}

// @Summary List tracked assets
// @Tags market
// @Param all query bool false "include inactive"
// @Success 200 {object} apiResponse
// @Router /api/v1/market/assets [get]
func (h *MarketHandler) listAssets(c *gin.Context) {
	if h.Repo == nil {
		Fail(c, http.StatusInternalServerError, "repo unavailable")
		return
	}
	activeOnly := !boolQueryDefault(c, "all", false)
	items, err := h.Repo.ListAssets(c.Request.Context(), activeOnly)
	if err != nil {
		Fail(c, http.StatusBadGateway, err.Error())
		return
	}
	Ok(c, items, "")
}

// @Summary Get one asset by ticker
// @Tags market
// @Param tickerSymbol query string true "ticker symbol"
// @Success 200 {object} apiResponse
// @Failure 404 {object} apiResponse
// @Router /api/v1/market/asset [get]
func (h *MarketHandler) getAsset(c *gin.Context) {
	if h.Repo == nil {
		Fail(c, http.StatusInternalServerError, "repo unavailable")
		return
	}
	ticker := strings.TrimSpace(c.Query("tickerSymbol"))
	if ticker == "" {
		Fail(c, http.StatusBadRequest, "tickerSymbol is required")
		return
	}
	item, err := h.Repo.GetAssetByTicker(c.Request.Context(), ticker)
	if err != nil {
		Fail(c, http.StatusBadGateway, err.Error())
		return
	}
	if item == nil {
		Fail(c, http.StatusNotFound, "asset not found")
		return
	}
	Ok(c, item, "")
}

// @Summary Assets currently in their buy window
// @Tags market
// @Success 200 {object} apiResponse
// @Router /api/v1/market/drop-alert/assets [get]
func (h *MarketHandler) dropAlertAssets(c *gin.Context) {
	if h.Repo == nil {
		Fail(c, http.StatusInternalServerError, "repo unavailable")
		return
	}
	items, err := h.Repo.ListDropAlertAssets(c.Request.Context())
	if err != nil {
		Fail(c, http.StatusBadGateway, err.Error())
		return
	}
	instruments := make([]models.Instrument, len(items))
	for i := range items {
		instruments[i] = &items[i]
	}
	Ok(c, alert.EvaluateAll(instruments), "")
}

// @Summary Dividend distributions across tracked assets
// @Tags market
// @Success 200 {object} apiResponse
// @Router /api/v1/market/dividend-gains [get]
func (h *MarketHandler) dividendGains(c *gin.Context) {
	if h.Repo == nil {
		Fail(c, http.StatusInternalServerError, "repo unavailable")
		return
	}
	items, err := h.Repo.ListDividends(c.Request.Context())
	if err != nil {
		Fail(c, http.StatusBadGateway, err.Error())
		return
	}
	Ok(c, items, "dividend gains retrieved")
}

// @Summary Currencies currently in their buy window
// @Tags market
// @Success 200 {object} apiResponse
// @Router /api/v1/market/drop-alert/currencies [get]
func (h *MarketHandler) dropAlertCurrencies(c *gin.Context) {
	if h.Repo == nil {
		Fail(c, http.StatusInternalServerError, "repo unavailable")
		return
	}
	items, err := h.Repo.ListDropAlertCurrencies(c.Request.Context())
	if err != nil {
		Fail(c, http.StatusBadGateway, err.Error())
		return
	}
	instruments := make([]models.Instrument, len(items))
	for i := range items {
		instruments[i] = &items[i]
	}
	Ok(c, alert.EvaluateAll(instruments), "")
}
