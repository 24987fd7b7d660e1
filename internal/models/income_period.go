package models

import (
	"time"

	"github.com/Gowsikakho/expense-track/internal/month"
	"github.com/Gowsikakho/expense-track/internal/uuid"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// IncomePeriod is the income recorded for one user and month. There is at
// most one row per (user, month); writes are upserts.
type IncomePeriod struct {
	ID        string          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string          `gorm:"type:uuid;not null;uniqueIndex:idx_income_user_month" json:"user_id"`
	Month     month.Month     `gorm:"type:varchar(7);not null;uniqueIndex:idx_income_user_month" json:"month"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (p *IncomePeriod) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New()
	}
	return nil
}
