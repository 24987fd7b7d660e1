package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Gowsikakho/expense-track/internal/errors"
	"github.com/Gowsikakho/expense-track/internal/pagination"
	"github.com/Gowsikakho/expense-track/internal/services"
	"github.com/Gowsikakho/expense-track/internal/uuid"
)

// ExpenseHandler handles expense-related requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
	auditService   services.AuditServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer, auditService services.AuditServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, auditService: auditService}
}

// CreateExpenseRequest represents the request payload for creating an expense.
// Omitting budget_id records a personal expense.
type CreateExpenseRequest struct {
	Name       string          `json:"name" binding:"required,min=1,max=200"`
	Amount     json.RawMessage `json:"amount" binding:"required" swaggertype:"string" example:"42.50"`
	Date       string          `json:"date" binding:"required,calendar_date" example:"2024-03-15"`
	BudgetID   *string         `json:"budget_id" binding:"omitempty,uuid"`
	CategoryID *string         `json:"category_id" binding:"omitempty,uuid"`
	Notes      string          `json:"notes" binding:"max=1000"`
}

// UpdateExpenseRequest represents the request payload for updating an expense.
// clear_budget and clear_category detach the expense.
type UpdateExpenseRequest struct {
	Name          *string         `json:"name" binding:"omitempty,min=1,max=200"`
	Amount        json.RawMessage `json:"amount" swaggertype:"string" example:"42.50"`
	Date          *string         `json:"date" binding:"omitempty,calendar_date"`
	BudgetID      *string         `json:"budget_id" binding:"omitempty,uuid"`
	ClearBudget   bool            `json:"clear_budget"`
	CategoryID    *string         `json:"category_id" binding:"omitempty,uuid"`
	ClearCategory bool            `json:"clear_category"`
	Notes         *string         `json:"notes" binding:"omitempty,max=1000"`
}

// CreateExpense handles the creation of a new expense.
// @Summary     Create an expense
// @Description Record a spend, optionally against a budget and category
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} models.Expense "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input or amount"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Budget or category belongs to another user"
// @Failure     404 {object} ErrorResponse "Budget or category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), userID, services.ExpenseInput{
		Name:       req.Name,
		Amount:     amount,
		Date:       date,
		BudgetID:   req.BudgetID,
		CategoryID: req.CategoryID,
		Notes:      req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_EXPENSE", "expense", expense.ID, c.ClientIP(),
		map[string]any{"name": expense.Name, "amount": expense.Amount.String()})

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// GetUserExpenses handles listing expenses with optional filters.
// @Summary     Get expenses
// @Description Get a paginated list of expenses, newest date first
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       month       query string false "Month (YYYY-MM)"
// @Param       budget_id   query string false "Filter by budget ID"
// @Param       category_id query string false "Filter by category ID"
// @Param       personal    query bool   false "Only expenses without a budget"
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Expense] "Paginated expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [get]
func (h *ExpenseHandler) GetUserExpenses(c *gin.Context) {
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

	var filter services.ExpenseFilter

	if v := c.Query("month"); v != "" {
		m, err := parseMonth(v, false)
		if err != nil {
			respondWithError(c, err)
			return
		}
		filter.Month = &m
	}

	if v := c.Query("budget_id"); v != "" {
		if !uuid.IsValid(v) {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid budget_id"))
			return
		}
		filter.BudgetID = &v
	}

	if v := c.Query("category_id"); v != "" {
		if !uuid.IsValid(v) {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid category_id"))
			return
		}
		filter.CategoryID = &v
	}

	if v := c.Query("personal"); v != "" {
		personal, err := strconv.ParseBool(v)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "personal must be 'true' or 'false'"))
			return
		}
		filter.PersonalOnly = personal
	}

	if filter.PersonalOnly && filter.BudgetID != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "personal cannot be combined with budget_id"))
		return
	}

	result, err := h.expenseService.GetUserExpenses(c.Request.Context(), userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetRecentExpenses lists the most recently recorded expenses.
// @Summary     Get recent expenses
// @Description Get the latest recorded expenses (default 10, max 100)
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       limit query int false "Number of expenses"
// @Success     200 {array}  models.Expense "Recent expenses"
// @Failure     400 {object} ErrorResponse "Invalid limit"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/recent [get]
func (h *ExpenseHandler) GetRecentExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	limit := 0
	if v := c.Query("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 1 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "limit must be a positive integer"))
			return
		}
	}

	expenses, err := h.expenseService.GetRecentExpenses(c.Request.Context(), userID, limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expenses": expenses})
}

// GetExpenseByID handles retrieving a specific expense.
// @Summary     Get expense by ID
// @Description Get a specific expense by ID
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} models.Expense "Expense details"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [get]
func (h *ExpenseHandler) GetExpenseByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.GetExpenseByID(c.Request.Context(), userID, expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// UpdateExpense handles updating an expense.
// @Summary     Update expense
// @Description Update fields of an expense; clear_budget and clear_category detach it
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Expense ID"
// @Param       request body UpdateExpenseRequest true "Updated expense details"
// @Success     200 {object} models.Expense "Updated expense"
// @Failure     400 {object} ErrorResponse "Invalid input or amount"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Budget or category belongs to another user"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	update := services.ExpenseUpdate{
		Name:          req.Name,
		BudgetID:      req.BudgetID,
		ClearBudget:   req.ClearBudget,
		CategoryID:    req.CategoryID,
		ClearCategory: req.ClearCategory,
		Notes:         req.Notes,
	}
	if update.Amount, err = parseOptionalAmount(req.Amount); err != nil {
		respondWithError(c, err)
		return
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			respondWithError(c, err)
			return
		}
		update.Date = &date
	}

	expense, err := h.expenseService.UpdateExpense(c.Request.Context(), userID, expenseID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_EXPENSE", "expense", expenseID, c.ClientIP(),
		map[string]any{"name": expense.Name, "amount": expense.Amount.String()})

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// DeleteExpense handles deleting an expense.
// @Summary     Delete expense
// @Description Delete an expense by ID
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} MessageResponse "Expense deleted"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.DeleteExpense(c.Request.Context(), userID, expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_EXPENSE", "expense", expenseID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}
