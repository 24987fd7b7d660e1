package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Gowsikakho/expense-track/internal/models"
	"github.com/Gowsikakho/expense-track/internal/month"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// Dec parses a decimal literal and panics on malformed input.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Date parses a YYYY-MM-DD literal as UTC midnight.
func Date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestBudget creates a budget with the given allocation.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID, amount string) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID: userID,
		Name:   fmt.Sprintf("Test Budget %d", nextID()),
		Amount: Dec(amount),
		Icon:   "💰",
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestCategory creates a category with the given name.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID, name string) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   name,
		Icon:   "🏷️",
		Color:  "#6b7280",
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// ExpenseOption customizes CreateTestExpense.
type ExpenseOption func(*models.Expense)

// WithBudget attaches the expense to a budget.
func WithBudget(id string) ExpenseOption {
	return func(e *models.Expense) { e.BudgetID = &id }
}

// WithCategory attaches the expense to a category.
func WithCategory(id string) ExpenseOption {
	return func(e *models.Expense) { e.CategoryID = &id }
}

// WithName overrides the generated expense name.
func WithName(name string) ExpenseOption {
	return func(e *models.Expense) { e.Name = name }
}

// CreateTestExpense creates an expense dated on the given YYYY-MM-DD day.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID, amount, date string, opts ...ExpenseOption) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID: userID,
		Name:   fmt.Sprintf("Test Expense %d", nextID()),
		Amount: Dec(amount),
		Date:   Date(date),
	}
	for _, opt := range opts {
		opt(expense)
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestIncome records income for a month.
func CreateTestIncome(t *testing.T, db *gorm.DB, userID, m, amount string) *models.IncomePeriod {
	t.Helper()

	income := &models.IncomePeriod{
		UserID: userID,
		Month:  month.MustParse(m),
		Amount: Dec(amount),
	}
	if err := db.Create(income).Error; err != nil {
		t.Fatalf("failed to create test income: %v", err)
	}
	return income
}

// CreateTestSavingsEntry appends a savings ledger entry.
func CreateTestSavingsEntry(t *testing.T, db *gorm.DB, userID, m, amount string, rollover bool) *models.SavingsEntry {
	t.Helper()

	entry := &models.SavingsEntry{
		UserID:     userID,
		Month:      month.MustParse(m),
		Amount:     Dec(amount),
		IsRollover: rollover,
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test savings entry: %v", err)
	}
	return entry
}
