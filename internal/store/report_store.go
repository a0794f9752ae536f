package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"bullpen/internal/models"
)

type ReportStore struct {
	db *gorm.DB
}

func NewReportStore(db *gorm.DB) *ReportStore {
	return &ReportStore{db: db}
}

func (s *ReportStore) CreateReport(ctx context.Context, report *models.Report) error {
	return s.db.WithContext(ctx).Create(report).Error
}

func (s *ReportStore) GetReport(ctx context.Context, id uint) (*models.Report, error) {
	var report models.Report
	if err := s.db.WithContext(ctx).Preload("Reporter").First(&report, id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (s *ReportStore) TransitionReport(ctx context.Context, id uint, status models.ReportStatus, resolvedBy uint) error {
	now := time.Now()
	return s.db.WithContext(ctx).Model(&models.Report{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"resolved_by": resolvedBy,
			"resolved_at": &now,
		}).Error
}

func (s *ReportStore) ListReports(ctx context.Context, status models.ReportStatus, limit int) ([]models.Report, error) {
	query := s.db.WithContext(ctx).Preload("Reporter").Order("created_at DESC").Limit(limit)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var reports []models.Report
	if err := query.Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}
