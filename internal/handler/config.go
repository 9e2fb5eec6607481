package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/WillianTomaz/magfi/internal/repository"
)

// ConfigHandler manages runtime key-value settings stored in the database.
type ConfigHandler struct {
	Repo repository.Repository
}

func (h *ConfigHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/config")
	group.PUT("/:name", h.upsert)
	group.GET("/:name", h.get)
	group.GET("", h.list)
}

type configRequest struct {
	Value *string `json:"config_value"`
}

// @Summary Set a config entry
// @Tags config
// @Param name path string true "config name"
// @Param body body configRequest true "value"
// @Success 200 {object} apiResponse
// @Router /api/v1/config/{name} [put]
func (h *ConfigHandler) upsert(c *gin.Context) {
	if h.Repo == nil {
		Fail(c, http.StatusInternalServerError, "repo unavailable")
		return
	}
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		Fail(c, http.StatusBadRequest, "config name required")
		return
	}
	var req configRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "invalid body")
		return
	}
	item, err := h.Repo.UpsertConfigEntry(c.Request.Context(), name, req.Value)
	if err != nil {
		Fail(c, http.StatusBadGateway, err.Error())
		return
	}
	Ok(c, item, "config saved")
}

// @Summary Get a config entry
// @Tags config
// @Param name path string true "config name"
// @Success 200 {object} apiResponse
// @Failure 404 {object} apiResponse
// @Router /api/v1/config/{name} [get]
func (h *ConfigHandler) get(c *gin.Context) {
	if h.Repo == nil {
		Fail(c, http.StatusInternalServerError, "repo unavailable")
		return
	}
	item, err := h.Repo.GetConfigEntry(c.Request.Context(), c.Param("name"))
	if err != nil {
		Fail(c, http.StatusBadGateway, err.Error())
		return
	}
	if item == nil {
		Fail(c, http.StatusNotFound, "config entry not found")
		return
	}
	Ok(c, item, "")
}

// @Summary List config entries
// @Tags config
// @Success 200 {object} apiResponse
// @Router /api/v1/config [get]
func (h *ConfigHandler) list(c *gin.Context) {
	if h.Repo == nil {
		Fail(c, http.StatusInternalServerError, "repo unavailable")
		return
	}
	items, err := h.Repo.ListConfigEntries(c.Request.Context())
	if err != nil {
		Fail(c, http.StatusBadGateway, err.Error())
		return
	}
	Ok(c, items, "")
}
