package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/WillianTomaz/magfi/internal/models"
	"github.com/WillianTomaz/magfi/internal/repository"
)

type AccountHandler struct {
	Repo repository.Repository
}

func (h *AccountHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/accounts")
	group.POST("", h.create)
	group.GET("", h.list)
	group.GET("/:id", h.get)
	group.PUT("/:id", h.update)
	group.DELETE("/:id", h.deactivate)
}

type accountRequest struct {
	Name                string           `json:"account_name" binding:"required"`
	IsInvestmentAccount bool             `json:"is_investment_account"`
	IsPayrollAccount    bool             `json:"is_payroll_account"`
	TotalInvested       *decimal.Decimal `json:"total_invested"`
	MonthlySalary       *decimal.Decimal `json:"monthly_salary"`
	CheckingBalance     *decimal.Decimal `json:"checking_account_balance"`
	DefaultCurrency     string           `json:"default_currency"`
}

func accountIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id == 0 {
		Fail(c, http.StatusBadRequest, "invalid account id")
		return 0, false
	}
	return id, true
}

// @Summary Create an account
// @Tags accounts
// @Param body body accountRequest true "account"
// @Success 201 {object} apiResponse
// @Router /api/v1/accounts [post]
func (h *AccountHandler) create(c *gin.Context) {
	if h.Repo == nil {
		Fail(c, http.StatusInternalServerError, "repo unavailable")
		return
	}
	var req accountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	currency := strings.ToUpper(strings.TrimSpace(req.DefaultCurrency))
	if currency == "" {
		currency = "BRL"
	}
	item := &models.Account{
		Name:                strings.TrimSpace(req.Name),
		IsInvestmentAccount: req.IsInvestmentAccount,
		IsPayrollAccount:    req.IsPayrollAccount,
		TotalInvested:       req.TotalInvested,
		MonthlySalary:       req.MonthlySalary,
		CheckingBalance:     req.CheckingBalance,
		DefaultCurrency:     currency,
		IsActive:            true,
	}
	if err := h.Repo.CreateAccount(c.Request.Context(), item); err != nil {
		Fail(c, http.StatusBadGateway, err.Error())
		return
	}
	Created(c, item, "account created")
}

// @Summary List accounts
// @Tags accounts
// @Param all query bool false "include inactive"
// @Success 200 {object} apiResponse
// @Router /api/v1/accounts [get]
func (h *AccountHandler) list(c *gin.Context) {
	if h.Repo == nil {
		Fail(c, http.StatusInternalServerError, "repo unavailable")
		return
	}
	activeOnly := !boolQueryDefault(c, "all", false)
	items, err := h.Repo.ListAccounts(c.Request.Context(), activeOnly)
	if err != nil {
		Fail(c, http.StatusBadGateway, err.Error())
		return
	}
	Ok(c, items, "")
}

// @Summary Get one account
// @Tags accounts
// @Param id path int true "account id"
// @Success 200 {object} apiResponse
// @Failure 404 {object} apiResponse
// @Router /api/v1/accounts/{id} [get]
func (h *AccountHandler) get(c *gin.Context) {
	if h.Repo == nil {
		Fail(c, http.StatusInternalServerError, "repo unavailable")
		return
	}
	id, ok := accountIDParam(c)
	if !ok {
		return
	}
	item, err := h.Repo.GetAccountByID(c.Request.Context(), id)
	if err != nil {
		Fail(c, http.StatusBadGateway, err.Error())
		return
	}
	if item == nil {
		Fail(c, http.StatusNotFound, "account not found")
		return
	}
	Ok(c, item, "")
}

// @Summary Update an account
// @Tags accounts
// @Param id path int true "account id"
// @Param body body accountRequest true "fields to change"
// @Success 200 {object} apiResponse
// @Failure 404 {object} apiResponse
// @Router /api/v1/accounts/{id} [put]
func (h *AccountHandler) update(c *gin.Context) {
	if h.Repo == nil {
		Fail(c, http.StatusInternalServerError, "repo unavailable")
		return
	}
	id, ok := accountIDParam(c)
	if !ok {
		return
	}
	item, err := h.Repo.GetAccountByID(c.Request.Context(), id)
	if err != nil {
		Fail(c, http.StatusBadGateway, err.Error())
		return
	}
	if item == nil {
		Fail(c, http.StatusNotFound, "account not found")
		return
	}

	var req accountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	item.Name = strings.TrimSpace(req.Name)
	item.IsInvestmentAccount = req.IsInvestmentAccount
	item.IsPayrollAccount = req.IsPayrollAccount
	if req.TotalInvested != nil {
		item.TotalInvested = req.TotalInvested
	}
	if req.MonthlySalary != nil {
		item.MonthlySalary = req.MonthlySalary
	}
	if req.CheckingBalance != nil {
		item.CheckingBalance = req.CheckingBalance
	}
	if currency := strings.ToUpper(strings.TrimSpace(req.DefaultCurrency)); currency != "" {
		item.DefaultCurrency = currency
	}

	if err := h.Repo.SaveAccount(c.Request.Context(), item); err != nil {
		Fail(c, http.StatusBadGateway, err.Error())
		return
	}
	Ok(c, item, "account updated")
}

// @Summary Deactivate an account
// @Tags accounts
// @Param id path int true "account id"
// @Success 200 {object} apiResponse
// @Failure 404 {object} apiResponse
// @Router /api/v1/accounts/{id} [delete]
func (h *AccountHandler) deactivate(c *gin.Context) {
	if h.Repo == nil {
		Fail(c, http.StatusInternalServerError, "repo unavailable")
		return
	}
	id, ok := accountIDParam(c)
	if !ok {
		return
	}
	found, err := h.Repo.DeactivateAccount(c.Request.Context(), id)
	if err != nil {
		Fail(c, http.StatusBadGateway, err.Error())
		return
	}
	if !found {
		Fail(c, http.StatusNotFound, "account not found")
		return
	}
	Ok(c, gin.H{"id": id}, "account deactivated")
}
