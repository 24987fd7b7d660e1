package models

import "github.com/shopspring/decimal"

// Budget is a named spending allocation. Expenses point at it through BudgetID.
type Budget struct {
	Base
	UserID string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name   string          `gorm:"not null" json:"name"`
	Amount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Icon   string          `json:"icon,omitempty"`
}
