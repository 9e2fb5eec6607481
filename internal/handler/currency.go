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

type CurrencyHandler struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

func (h *CurrencyHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/currencies")
	group.POST("", h.create)
	group.GET("", h.list)
	group.GET("/:code", h.get)
	group.PUT("/:code", h.update)
	group.DELETE("/:code", h.deactivate)
}

type createCurrencyRequest struct {
	Code             string           `json:"currency_code" binding:"required"`
	Name             string           `json:"currency_name" binding:"required"`
	BaseCurrency     string           `json:"base_currency"`
	CurrentPrice     decimal.Decimal  `json:"current_price" binding:"required"`
	TargetPrice      *decimal.Decimal `json:"target_price"`
	DropAlertEnabled bool             `json:"drop_alert_enabled"`
}

type updateCurrencyRequest struct {
	Name             *string          `json:"currency_name"`
	CurrentPrice     *decimal.Decimal `json:"current_price"`
	TargetPrice      *decimal.Decimal `json:"target_price"`
	DropAlertEnabled *bool            `json:"drop_alert_enabled"`
}

// @Summary Track a new currency pair
// @Tags currencies
// @Param body body createCurrencyRequest true "currency"
// @Success 201 {object} apiResponse
// @Router /api/v1/currencies [post]
func (h *CurrencyHandler) create(c *gin.Context) {
	if h.Repo == nil {
		Fail(c, http.StatusInternalServerError, "repo unavailable")
		return
	}
	var req createCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	if req.CurrentPrice.IsNegative() {
		Fail(c, http.StatusBadRequest, "current_price must not be negative")
		return
	}
	base := strings.ToUpper(strings.TrimSpace(req.BaseCurrency))
	if base == "" {
		base = "BRL"
	}

	item := &models.Currency{
		Code:             strings.ToUpper(strings.TrimSpace(req.Code)),
		Name:             strings.TrimSpace(req.Name),
		BaseCurrency:     base,
		CurrentPrice:     req.CurrentPrice,
		TargetPrice:      req.TargetPrice,
		DropAlertEnabled: req.DropAlertEnabled,
		IsActive:         true,
	}
	_, item.TimeToBuy = alert.Evaluate(item)

	existing, err := h.Repo.GetCurrencyByCode(c.Request.Context(), item.Code)
	if err != nil {
		Fail(c, http.StatusBadGateway, err.Error())
		return
	}
	if existing != nil {
		Fail(c, http.StatusConflict, "currency already tracked")
		return
	}
	if err := h.Repo.CreateCurrency(c.Request.Context(), item); err != nil {
		Fail(c, http.StatusBadGateway, err.Error())
		return
	}
	if err := h.Repo.RecordCurrencyPrice(c.Request.Context(), item.ID, item.CurrentPrice); err != nil && h.Logger != nil {
		h.Logger.Warn("failed to record initial rate", zap.String("code", item.Code), zap.Error(err))
	}
	Created(c, item, "currency created")
}

// @Summary List currencies
// @Tags currencies
// @Param all query bool false "include inactive"
// @Success 200 {object} apiResponse
// @Router /api/v1/currencies [get]
func (h *CurrencyHandler) list(c *gin.Context) {
	if h.Repo == nil {
		Fail(c, http.StatusInternalServerError, "repo unavailable")
		return
	}
	activeOnly := !boolQueryDefault(c, "all", false)
	items, err := h.Repo.ListCurrencies(c.Request.Context(), activeOnly)
	if err != nil {
		Fail(c, http.StatusBadGateway, err.Error())
		return
	}
	Ok(c, items, "")
}

// @Summary Get one currency
// @Tags currencies
// @Param code path string true "currency code"
// @Success 200 {object} apiResponse
// @Failure 404 {object} apiResponse
// @Router /api/v1/currencies/{code} [get]
func (h *CurrencyHandler) get(c *gin.Context) {
	if h.Repo == nil {
		Fail(c, http.StatusInternalServerError, "repo unavailable")
		return
	}
	item, err := h.Repo.GetCurrencyByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		Fail(c, http.StatusBadGateway, err.Error())
		return
	}
	if item == nil {
		Fail(c, http.StatusNotFound, "currency not found")
		return
	}
	Ok(c, item, "")
}

// @Summary Update a currency
// @Tags currencies
// @Param code path string true "currency code"
// @Param body body updateCurrencyRequest true "fields to change"
// @Success 200 {object} apiResponse
// @Failure 404 {object} apiResponse
// @Router /api/v1/currencies/{code} [put]
func (h *CurrencyHandler) update(c *gin.Context) {
	if h.Repo == nil {
		Fail(c, http.StatusInternalServerError, "repo unavailable")
		return
	}
	item, err := h.Repo.GetCurrencyByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		Fail(c, http.StatusBadGateway, err.Error())
		return
	}
	if item == nil {
		Fail(c, http.StatusNotFound, "currency not found")
		return
	}

	var req updateCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}

	priceChanged := false
	if req.Name != nil {
		item.Name = strings.TrimSpace(*req.Name)
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
	_, item.TimeToBuy = alert.Evaluate(item)

	if err := h.Repo.SaveCurrency(c.Request.Context(), item); err != nil {
		Fail(c, http.StatusBadGateway, err.Error())
		return
	}
	if priceChanged {
		if err := h.Repo.RecordCurrencyPrice(c.Request.Context(), item.ID, item.CurrentPrice); err != nil && h.Logger != nil {
			h.Logger.Warn("failed to record rate history", zap.String("code", item.Code), zap.Error(err))
		}
	}
	Ok(c, item, "currency updated")
}

// @Summary Stop tracking a currency
// @Tags currencies
// @Param code path string true "currency code"
// @Success 200 {object} apiResponse
// @Failure 404 {object} apiResponse
// @Router /api/v1/currencies/{code} [delete]
func (h *CurrencyHandler) deactivate(c *gin.Context) {
	if h.Repo == nil {
		Fail(c, http.StatusInternalServerError, "repo unavailable")
		return
	}
	found, err := h.Repo.DeactivateCurrency(c.Request.Context(), c.Param("code"))
	if err != nil {
		Fail(c, http.StatusBadGateway, err.Error())
		return
	}
	if !found {
		Fail(c, http.StatusNotFound, "currency not found")
		return
	}
	Ok(c, gin.H{"code": strings.ToUpper(c.Param("code"))}, "currency deactivated")
}
