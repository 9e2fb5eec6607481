package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/WillianTomaz/magfi/internal/predict"
	"github.com/WillianTomaz/magfi/internal/repository"
)

type PredictHandler struct {
	Service *predict.Service
	Repo    repository.Repository
	Logger  *zap.Logger
}

func (h *PredictHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/predict")
	group.GET("", h.predictTop)
	group.GET("/history", h.history)
	group.GET("/:ticker", h.predictTicker)
}

// @Summary Forecast the top tracked assets
// @Tags predict
// @Success 200 {object} apiResponse
// @Router /api/v1/predict [get]
func (h *PredictHandler) predictTop(c *gin.Context) {
	if h.Service == nil {
		Fail(c, http.StatusServiceUnavailable, "prediction disabled")
		return
	}
	results, err := h.Service.PredictTop(c.Request.Context())
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("batch prediction failed", zap.Error(err))
		}
		Fail(c, http.StatusBadGateway, err.Error())
		return
	}
	Ok(c, results, "")
}

// @Summary Forecast one asset by ticker
// @Tags predict
// @Param ticker path string true "ticker symbol"
// @Success 200 {object} apiResponse
// @Failure 404 {object} apiResponse
// @Failure 422 {object} apiResponse
// @Router /api/v1/predict/{ticker} [get]
func (h *PredictHandler) predictTicker(c *gin.Context) {
	if h.Service == nil {
		Fail(c, http.StatusServiceUnavailable, "prediction disabled")
		return
	}
	ticker := strings.TrimSpace(c.Param("ticker"))
	result, err := h.Service.PredictTicker(c.Request.Context(), ticker)
	if err != nil {
		switch {
		case errors.Is(err, predict.ErrUnknownTicker):
			Fail(c, http.StatusNotFound, "asset not found")
		case errors.Is(err, predict.ErrInsufficientData):
			Fail(c, http.StatusUnprocessableEntity, "insufficient news data for prediction")
		default:
			if h.Logger != nil {
				h.Logger.Warn("prediction failed",
					zap.String("ticker", ticker),
					zap.Error(err),
				)
			}
			Fail(c, http.StatusBadGateway, err.Error())
		}
		return
	}
	Ok(c, result, "")
}

// @Summary List stored predictions
// @Tags predict
// @Param ticker query string false "filter by ticker"
// @Param limit query int false "page size"
// @Success 200 {object} apiResponse
// @Router /api/v1/predict/history [get]
func (h *PredictHandler) history(c *gin.Context) {
	if h.Repo == nil {
		Fail(c, http.StatusInternalServerError, "repo unavailable")
		return
	}
	var tickerPtr *string
	if ticker := strings.ToUpper(strings.TrimSpace(c.Query("ticker"))); ticker != "" {
		tickerPtr = &ticker
	}
	items, err := h.Repo.ListPredictions(c.Request.Context(), repository.ListPredictionsParams{
		Ticker: tickerPtr,
		Limit:  intQuery(c, "limit", 50),
	})
	if err != nil {
		Fail(c, http.StatusBadGateway, err.Error())
		return
	}
	Ok(c, items, "")
}
