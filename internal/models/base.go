package models

import (
	"time"

	"github.com/Gowsikakho/expense-track/internal/uuid"

	"gorm.io/gorm"
)

// Base contains common columns for all mutable tables
type Base struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}

// All lists every model in migration order. SQLite databases are created
// from it with AutoMigrate; Postgres uses the SQL migrations.
func All() []any {
	return []any{
		&User{},
		&Budget{},
		&Category{},
		&Expense{},
		&IncomePeriod{},
		&SavingsEntry{},
		&AuditLog{},
	}
}
