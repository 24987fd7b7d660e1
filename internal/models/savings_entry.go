package models

import (
	"time"

	"github.com/Gowsikakho/expense-track/internal/month"
	"github.com/Gowsikakho/expense-track/internal/uuid"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SavingsEntry is one line of the append-only savings ledger.
// Entries are never updated or deleted; corrections are new entries.
// The partial unique index allows a single rollover entry per user and month.
type SavingsEntry struct {
	ID         string          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     string          `gorm:"type:uuid;not null;index;uniqueIndex:idx_savings_rollover,where:is_rollover = true" json:"user_id"`
	Month      month.Month     `gorm:"type:varchar(7);not null;uniqueIndex:idx_savings_rollover,where:is_rollover = true" json:"month"`
	Amount     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	IsRollover bool            `gorm:"not null;default:false" json:"is_rollover"`
	Note       string          `json:"note,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (s *SavingsEntry) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New()
	}
	return nil
}
