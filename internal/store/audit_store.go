package store

import (
	"context"

	"gorm.io/gorm"

	"bullpen/internal/models"
)

// AuditStore appends to and reads the admin audit trail. There is no update
// or delete path on purpose.
type AuditStore struct {
	db *gorm.DB
}

func NewAuditStore(db *gorm.DB) *AuditStore {
	return &AuditStore{db: db}
}

func (s *AuditStore) AppendLog(ctx context.Context, entry *models.AdminLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

func (s *AuditStore) RecentLogs(ctx context.Context, limit int) ([]models.AdminLog, error) {
	var entries []models.AdminLog
	if err := s.db.WithContext(ctx).Preload("Admin").
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
