package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Gowsikakho/expense-track/internal/errors"
	"github.com/Gowsikakho/expense-track/internal/logger"
	"github.com/Gowsikakho/expense-track/internal/month"
	"github.com/Gowsikakho/expense-track/internal/pagination"
	"github.com/Gowsikakho/expense-track/internal/services"
)

// LedgerHandler handles income, savings and month close requests.
type LedgerHandler struct {
	ledgerService     services.LedgerServicer
	auditService      services.AuditServicer
	autoClosePrevious bool
}

// NewLedgerHandler creates a new LedgerHandler. With autoClosePrevious set,
// recording income for a month also closes the month before it.
func NewLedgerHandler(ledgerService services.LedgerServicer, auditService services.AuditServicer, autoClosePrevious bool) *LedgerHandler {
	return &LedgerHandler{
		ledgerService:     ledgerService,
		auditService:      auditService,
		autoClosePrevious: autoClosePrevious,
	}
}

// SetIncomeRequest represents the request payload for recording income.
type SetIncomeRequest struct {
	Amount json.RawMessage `json:"amount" binding:"required" swaggertype:"string" example:"5000.00"`
}

// AdjustSavingsRequest represents a manual savings entry.
// Negative amounts record withdrawals.
type AdjustSavingsRequest struct {
	Month  string          `json:"month" binding:"required,month" example:"2024-03"`
	Amount json.RawMessage `json:"amount" binding:"required" swaggertype:"string" example:"-250.00"`
	Note   string          `json:"note" binding:"max=255"`
}

// SavingsResponse reports cumulative savings.
type SavingsResponse struct {
	Total string `json:"total" example:"1800.00"`
}

func pathMonth(c *gin.Context) (month.Month, error) {
	return parseMonth(c.Param("month"), false)
}

// SetIncome handles recording the income of a month.
// @Summary     Set monthly income
// @Description Record the income of a month, replacing any previous amount
// @Tags        ledger
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       month   path string           true "Month (YYYY-MM)"
// @Param       request body SetIncomeRequest true "Income amount"
// @Success     200 {object} models.IncomePeriod "Income recorded"
// @Failure     400 {object} ErrorResponse "Invalid month or amount"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /ledger/income/{month} [put]
func (h *LedgerHandler) SetIncome(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	m, err := pathMonth(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	income, err := h.ledgerService.SetIncome(c.Request.Context(), userID, m, amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "SET_INCOME", "income_period", income.ID, c.ClientIP(),
		map[string]any{"month": m.String(), "amount": income.Amount.String()})

	resp := gin.H{"income": income}
	if h.autoClosePrevious {
		if closed := h.closePrevious(c, userID, m); closed != nil {
			resp["previous_month_close"] = closed
		}
	}

	c.JSON(http.StatusOK, resp)
}

// closePrevious closes the month before m. Failures never fail the income
// write: a missing income is expected, anything else is logged.
func (h *LedgerHandler) closePrevious(c *gin.Context, userID string, m month.Month) *services.ReconcileResult {
	prev := m.Prev()
	result, err := h.ledgerService.ReconcileMonth(c.Request.Context(), userID, prev)
	if err != nil {
		if !errors.Is(err, apperrors.ErrMissingIncome) {
			logger.Named("ledger").Warnw("automatic month close failed",
				"user_id", userID, "month", prev.String(), "error", err)
		}
		return nil
	}
	if result.Written {
		h.auditService.Log(userID, "RECONCILE_MONTH", "savings_entry", result.EntryID, c.ClientIP(),
			map[string]any{"month": prev.String(), "amount": result.Amount.String(), "trigger": "income"})
	}
	return result
}

// GetIncome handles reading the income of a month.
// @Summary     Get monthly income
// @Description Get the income recorded for a month
// @Tags        ledger
// @Produce     json
// @Security    BearerAuth
// @Param       month path string true "Month (YYYY-MM)"
// @Success     200 {object} models.IncomePeriod "Income"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No income recorded"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /ledger/income/{month} [get]
func (h *LedgerHandler) GetIncome(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	m, err := pathMonth(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	income, err := h.ledgerService.GetIncome(c.Request.Context(), userID, m)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"income": income})
}

// GetCumulativeSavings handles reading total savings.
// @Summary     Get cumulative savings
// @Description Sum of every savings ledger entry
// @Tags        ledger
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} SavingsResponse "Cumulative savings"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /ledger/savings [get]
func (h *LedgerHandler) GetCumulativeSavings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	total, err := h.ledgerService.GetCumulativeSavings(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, SavingsResponse{Total: total.StringFixed(2)})
}

// GetSavingsHistory handles listing savings ledger entries.
// @Summary     Get savings history
// @Description Savings ledger entries, newest first
// @Tags        ledger
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.SavingsEntry] "Paginated entries"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /ledger/savings/history [get]
func (h *LedgerHandler) GetSavingsHistory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.ledgerService.GetSavingsHistory(c.Request.Context(), userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// AdjustSavings handles manual savings entries.
// @Summary     Adjust savings
// @Description Append a manual savings entry; use a negative amount to withdraw or correct
// @Tags        ledger
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body AdjustSavingsRequest true "Adjustment"
// @Success     201 {object} models.SavingsEntry "Entry appended"
// @Failure     400 {object} ErrorResponse "Invalid month or amount"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /ledger/savings/adjustments [post]
func (h *LedgerHandler) AdjustSavings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AdjustSavingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	m, err := parseMonth(req.Month, false)
	if err != nil {
		respondWithError(c, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.ledgerService.AdjustSavings(c.Request.Context(), userID, m, amount, req.Note)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "ADJUST_SAVINGS", "savings_entry", entry.ID, c.ClientIP(),
		map[string]any{"month": m.String(), "amount": entry.Amount.String()})

	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

// GetPeriodStatus handles reading the state of a month.
// @Summary     Get period status
// @Description Income, expenses, balance and rollover of a month
// @Tags        ledger
// @Produce     json
// @Security    BearerAuth
// @Param       month path string true "Month (YYYY-MM)"
// @Success     200 {object} services.PeriodStatus "Period status"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /ledger/{month}/status [get]
func (h *LedgerHandler) GetPeriodStatus(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	m, err := pathMonth(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	status, err := h.ledgerService.GetPeriodStatus(c.Request.Context(), userID, m)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": status})
}

// ReconcileMonth handles closing a month.
// @Summary     Reconcile month
// @Description Move income minus expenses of the month into savings; safe to repeat
// @Tags        ledger
// @Produce     json
// @Security    BearerAuth
// @Param       month path string true "Month (YYYY-MM)"
// @Success     201 {object} services.ReconcileResult "Rollover written"
// @Success     200 {object} services.ReconcileResult "Nothing written; month already closed or balanced"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     422 {object} ErrorResponse "No income recorded for the month"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /ledger/{month}/reconcile [post]
func (h *LedgerHandler) ReconcileMonth(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	m, err := pathMonth(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.ledgerService.ReconcileMonth(c.Request.Context(), userID, m)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if !result.Written {
		c.JSON(http.StatusOK, gin.H{"result": result})
		return
	}

	h.auditService.Log(userID, "RECONCILE_MONTH", "savings_entry", result.EntryID, c.ClientIP(),
		map[string]any{"month": m.String(), "amount": result.Amount.String(), "trigger": "manual"})

	c.JSON(http.StatusCreated, gin.H{"result": result})
}
