package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Gowsikakho/expense-track/internal/analytics"
	"github.com/Gowsikakho/expense-track/internal/models"
	"github.com/Gowsikakho/expense-track/internal/month"
	"github.com/Gowsikakho/expense-track/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(ctx context.Context, email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(ctx context.Context, email, password string) (*models.User, error)
}

// BudgetUpdate carries the optional fields of a budget update.
type BudgetUpdate struct {
	Name   *string
	Amount *decimal.Decimal
	Icon   *string
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(ctx context.Context, userID, name string, amount decimal.Decimal, icon string) (*models.Budget, error)
	GetUserBudgets(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(ctx context.Context, userID, budgetID string) (*models.Budget, error)
	UpdateBudget(ctx context.Context, userID, budgetID string, update BudgetUpdate) (*models.Budget, error)
	DeleteBudget(ctx context.Context, userID, budgetID string) error
	GetBudgetsWithSpend(ctx context.Context, userID string) ([]analytics.BudgetSpend, error)
	GetActiveBudgets(ctx context.Context, userID string) ([]analytics.BudgetSpend, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(ctx context.Context, userID, name, icon, color string) (*models.Category, error)
	GetUserCategories(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(ctx context.Context, userID, categoryID string) (*models.Category, error)
	UpdateCategory(ctx context.Context, userID, categoryID string, name, icon, color *string) (*models.Category, error)
	DeleteCategory(ctx context.Context, userID, categoryID string) error
	SeedDefaultCategories(ctx context.Context, userID string) ([]models.Category, error)
}

// ExpenseInput holds the fields of a new expense.
type ExpenseInput struct {
	Name       string
	Amount     decimal.Decimal
	Date       time.Time
	BudgetID   *string
	CategoryID *string
	Notes      string
}

// ExpenseUpdate carries the optional fields of an expense update.
// ClearBudget and ClearCategory detach the expense explicitly.
type ExpenseUpdate struct {
	Name          *string
	Amount        *decimal.Decimal
	Date          *time.Time
	BudgetID      *string
	ClearBudget   bool
	CategoryID    *string
	ClearCategory bool
	Notes         *string
}

// ExpenseFilter holds optional filter parameters for listing expenses.
type ExpenseFilter struct {
	Month        *month.Month
	BudgetID     *string
	CategoryID   *string
	PersonalOnly bool
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	CreateExpense(ctx context.Context, userID string, in ExpenseInput) (*models.Expense, error)
	GetExpenseByID(ctx context.Context, userID, expenseID string) (*models.Expense, error)
	GetUserExpenses(ctx context.Context, userID string, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	GetRecentExpenses(ctx context.Context, userID string, limit int) ([]models.Expense, error)
	UpdateExpense(ctx context.Context, userID, expenseID string, update ExpenseUpdate) (*models.Expense, error)
	DeleteExpense(ctx context.Context, userID, expenseID string) error
}

// MonthSummary is the spend summary of one month.
type MonthSummary struct {
	Month month.Month `json:"month"`
	analytics.Summary
}

// AnalyticsServicer loads month snapshots and runs the aggregation engine over them.
type AnalyticsServicer interface {
	GetCategoryTotals(ctx context.Context, userID string, m month.Month) ([]analytics.CategoryTotal, error)
	GetDailyTimeline(ctx context.Context, userID string, m month.Month) ([]analytics.DayAmount, error)
	GetMonthSummary(ctx context.Context, userID string, m month.Month) (*MonthSummary, error)
}

// ReconcileResult reports the outcome of closing a month.
// Amount is the rollover written, or the one already on record. EntryID
// names that rollover and is empty for a balanced month.
type ReconcileResult struct {
	Written bool            `json:"written"`
	Amount  decimal.Decimal `json:"amount"`
	EntryID string          `json:"entry_id,omitempty"`
}

// PeriodState is the reconciliation state of an owner's month.
type PeriodState string

const (
	PeriodNoIncome   PeriodState = "NO_INCOME"
	PeriodOpen       PeriodState = "OPEN"
	PeriodReconciled PeriodState = "RECONCILED"
)

// PeriodStatus describes one month of the ledger.
type PeriodStatus struct {
	Month    month.Month      `json:"month"`
	Status   PeriodState      `json:"status"`
	Income   *decimal.Decimal `json:"income,omitempty"`
	Expenses decimal.Decimal  `json:"expenses"`
	Balance  *decimal.Decimal `json:"balance,omitempty"`
	Rollover *decimal.Decimal `json:"rollover,omitempty"`
}

// ReconcileAllResult counts the owners visited by a batch month close.
type ReconcileAllResult struct {
	Owners  int `json:"owners"`
	Written int `json:"written"`
	Skipped int `json:"skipped"`
}

// LedgerServicer owns income periods and the append-only savings ledger.
type LedgerServicer interface {
	SetIncome(ctx context.Context, userID string, m month.Month, amount decimal.Decimal) (*models.IncomePeriod, error)
	GetIncome(ctx context.Context, userID string, m month.Month) (*models.IncomePeriod, error)
	ReconcileMonth(ctx context.Context, userID string, m month.Month) (*ReconcileResult, error)
	GetCumulativeSavings(ctx context.Context, userID string) (decimal.Decimal, error)
	AdjustSavings(ctx context.Context, userID string, m month.Month, amount decimal.Decimal, note string) (*models.SavingsEntry, error)
	GetSavingsHistory(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.SavingsEntry], error)
	GetPeriodStatus(ctx context.Context, userID string, m month.Month) (*PeriodStatus, error)
	ReconcileAll(ctx context.Context, m month.Month, concurrency int) (*ReconcileAllResult, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]any)
}
