package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a single spend. A nil BudgetID marks a personal (unbudgeted)
// expense; a nil CategoryID leaves the category to name-based derivation.
type Expense struct {
	Base
	UserID     string          `gorm:"type:uuid;not null;index:idx_expenses_user_date" json:"user_id"`
	Name       string          `gorm:"not null" json:"name"`
	Amount     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Date       time.Time       `gorm:"type:date;not null;index:idx_expenses_user_date" json:"date"`
	BudgetID   *string         `gorm:"type:uuid;index" json:"budget_id,omitempty"`
	CategoryID *string         `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Notes      string          `json:"notes,omitempty"`
}
