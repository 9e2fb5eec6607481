package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/WillianTomaz/magfi/internal/alert"
	"github.com/WillianTomaz/magfi/internal/models"
	"github.com/WillianTomaz/magfi/internal/repository"
)

type AssetHandler struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

func (h *AssetHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/assets")
	group.POST("", h.create)
	group.GET("", h.list)
	group.GET("/:ticker", h.get)
	group.PUT("/:ticker", h.update)
	group.DELETE("/:ticker", h.deactivate)
}

type createAssetRequest struct {
	Ticker           string           `json:"ticker_symbol" binding:"required"`
	Name             string           `json:"asset_name" binding:"required"`
	CurrencyCode     string           `json:"currency_code" binding:"required"`
	CurrentPrice     decimal.Decimal  `json:"current_price" binding:"required"`
	TargetPrice      *decimal.Decimal `json:"target_price"`
	DropAlertEnabled bool             `json:"drop_alert_enabled"`
	Sector           *string          `json:"sector"`
	PLRatio          *float64         `json:"pl_ratio"`
	PVPARatio        *float64         `json:"pvpa_ratio"`
}

type updateAssetRequest struct {
	Name             *string          `json:"asset_name"`
	CurrencyCode     *string          `json:"currency_code"`
	CurrentPrice     *decimal.Decimal `json:"current_price"`
	TargetPrice      *decimal.Decimal `json:"target_price"`
	DropAlertEnabled *bool            `json:"drop_alert_enabled"`
	Sector           *string          `json:"sector"`
	PLRatio          *float64         `json:"pl_ratio"`
	PVPARatio        *float64         `json:"pvpa_ratio"`
}

// refreshBuyWindow recomputes the denormalized alert columns after any
// price or target change.
func refreshBuyWindow(item *models.Asset) {
	item.TimeToBuy = false
	item.TargetGapPct = nil
	if ev, ok := alert.Evaluate(item); ok {
		item.TimeToBuy = true
		gap := ev.GapPct
		item.TargetGapPct = &gap
	}
}

// @Summary Track a new asset
// @Tags assets
// @Param body body createAssetRequest true "asset"
// @Success 201 {object} apiResponse
// @Router /api/v1/assets [post]
func (h *AssetHandler) create(c *gin.Context) {
	if h.Repo == nil {
		Fail(c, http.StatusInternalServerError, "repo unavailable")
		return
	}
	var req createAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	if req.CurrentPrice.IsNegative() {
		Fail(c, http.StatusBadRequest, "current_price must not be negative")
		return
	}

	item := &models.Asset{
		Ticker:           strings.ToUpper(strings.TrimSpace(req.Ticker)),
		Name:             strings.TrimSpace(req.Name),
		CurrencyCode:     strings.ToUpper(strings.TrimSpace(req.CurrencyCode)),
		CurrentPrice:     req.CurrentPrice,
		TargetPrice:      req.TargetPrice,
		DropAlertEnabled: req.DropAlertEnabled,
		Sector:           req.Sector,
		PLRatio:          req.PLRatio,
		PVPARatio:        req.PVPARatio,
		IsActive:         true,
	}
	refreshBuyWindow(item)

	existing, err := h.Repo.GetAssetByTicker(c.Request.Context(), item.Ticker)
	if err != nil {
		Fail(c, http.StatusBadGateway, err.Error())
		return
	}
	if existing != nil {
		Fail(c, http.StatusConflict, "asset already tracked")
		return
	}
	if err := h.Repo.CreateAsset(c.Request.Context(), item); err != nil {
		Fail(c, http.StatusBadGateway, err.Error())
		return
	}
	if err := h.Repo.RecordAssetPrice(c.Request.Context(), item.ID, item.CurrentPrice); err != nil && h.Logger != nil {
		h.Logger.Warn("failed to record initial price", zap.String("ticker", item.Ticker), zap.Error(err))
	}
	Created(c, item, "asset created")
}

// @Summary List assets
// @Tags assets
// @Param all query bool false "include inactive"
// @Success 200 {object} apiResponse
// @Router /api/v1/assets [get]
func (h *AssetHandler) list(c *gin.Context) {
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

// @Summary Get one asset
// @Tags assets
// @Param ticker path string true "ticker symbol"
// @Success 200 {object} apiResponse
// @Failure 404 {object} apiResponse
// @Router /api/v1/assets/{ticker} [get]
func (h *AssetHandler) get(c *gin.Context) {
	if h.Repo == nil {
		Fail(c, http.StatusInternalServerError, "repo unavailable")
		return
	}
	item, err := h.Repo.GetAssetByTicker(c.Request.Context(), c.Param("ticker"))
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

// @Summary Update an asset
// @Tags assets
// @Param ticker path string true "ticker symbol"
// @Param body body updateAssetRequest true "fields to change"
// @Success 200 {object} apiResponse
// @Failure 404 {object} apiResponse
// @Router /api/v1/assets/{ticker} [put]
func (h *AssetHandler) update(c *gin.Context) {
	if h.Repo == nil {
		Fail(c, http.StatusInternalServerError, "repo unavailable")
		return
	}
	item, err := h.Repo.GetAssetByTicker(c.Request.Context(), c.Param("ticker"))
	if err != nil {
		Fail(c, http.StatusBadGateway, err.Error())
		return
	}
	if item == nil {
		Fail(c, http.StatusNotFound, "asset not found")
		return
	}

	var req updateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}

	priceChanged := false
	if req.Name != nil {
		item.Name = strings.TrimSpace(*req.Name)
	}
	if req.CurrencyCode != nil {
		item.CurrencyCode = strings.ToUpper(strings.TrimSpace(*req.CurrencyCode))
	}
	if req.CurrentPrice != nil {
		if req.CurrentPrice.IsNegative() {
			Fail(c, http.StatusBadRequest, "current_price must not be negative")
			return
		}
		priceChanged = !item.CurrentPrice.Equal(*req.CurrentPrice)
		item.CurrentPrice = *req.CurrentPrice
	}
	if req.TargetPrice != nil {
		item.TargetPrice = req.TargetPrice
	}
	if req.DropAlertEnabled != nil {
		item.DropAlertEnabled = *req.DropAlertEnabled
	}
	if req.Sector != nil {
		item.Sector = req.Sector
	}
	if req.PLRatio != nil {
		item.PLRatio = req.PLRatio
	}
	if req.PVPARatio != nil {
		item.PVPARatio = req.PVPARatio
	}
	refreshBuyWindow(item)

	if err := h.Repo.SaveAsset(c.Request.Context(), item); err != nil {
		Fail(c, http.StatusBadGateway, err.Error())
		return
	}
	if priceChanged {
		if err := h.Repo.RecordAssetPrice(c.Request.Context(), item.ID, item.CurrentPrice); err != nil && h.Logger != nil {
			h.Logger.Warn("failed to record price history", zap.String("ticker", item.Ticker), zap.Error(err))
		}
	}
	Ok(c, item, "asset updated")
}

// @Summary Stop tracking an asset
// @Tags assets
// @Param ticker path string true "ticker symbol"
// @Success 200 {object} apiResponse
// @Failure 404 {object} apiResponse
// @Router /api/v1/assets/{ticker} [delete]
func (h *AssetHandler) deactivate(c *gin.Context) {
	if h.Repo == nil {
		Fail(c, http.StatusInternalServerError, "repo unavailable")
		return
	}
	found, err := h.Repo.DeactivateAsset(c.Request.Context(), c.Param("ticker"))
	if err != nil {
		Fail(c, http.StatusBadGateway, err.Error())
		return
	}
	if !found {
		Fail(c, http.StatusNotFound, "asset not found")
		return
	}
	Ok(c, gin.H{"ticker": strings.ToUpper(c.Param("ticker"))}, "asset deactivated")
}
