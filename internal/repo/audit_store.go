package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"assettrack/internal/models"
)

type AuditStore struct{ db *gorm.DB }

func NewAuditStore(db *gorm.DB) *AuditStore { return &AuditStore{db: db} }

// Record appends an audit entry. Metadata marshal failures fall back to
// an empty object rather than dropping the entry.
func (s *AuditStore) Record(ctx context.Context, profileID *string, action string, meta map[string]any) error {
	raw, err := json.Marshal(meta)
	if err != nil {
		raw = []byte("{}")
	}
	entry := models.AuditLog{ProfileID: profileID, Action: action, Metadata: models.JSONB(raw)}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("record audit: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. With all=false the
// result is restricted to the given profile.
func (s *AuditStore) Recent(ctx context.Context, profileID string, all bool, limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 200
	}
	q := s.db.WithContext(ctx).Order("created_at desc").Limit(limit)
	if !all {
		q = q.Where("profile_id = ?", profileID)
	}
	var logs []models.AuditLog
	if err := q.Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list audit: %w", err)
	}
	return logs, nil
}
