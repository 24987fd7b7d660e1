package services

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/Gowsikakho/expense-track/internal/logger"
	"github.com/Gowsikakho/expense-track/internal/models"
)

type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// encodeChanges renders the change set stored with an audit entry.
func encodeChanges(changes map[string]any) (string, error) {
	if len(changes) == 0 {
		return "", nil
	}
	data, err := json.Marshal(changes)
	if err != nil {
		return "{}", err
	}
	return string(data), nil
}

// Log appends an audit entry for a ledger mutation. Failures are logged and
// swallowed; the mutation has already been committed.
func (s *auditService) Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]any) {
	log := logger.Named("audit").With("user_id", userID, "action", action, "resource_type", resourceType)

	encoded, err := encodeChanges(changes)
	if err != nil {
		log.Warnw("audit changes not encodable", "error", err)
	}

	entry := models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      encoded,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		log.Errorw("audit write failed", "resource_id", resourceID, "error", err)
	}
}
