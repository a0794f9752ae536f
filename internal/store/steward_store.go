package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bullpen/internal/models"
)

type StewardStore struct {
	db *gorm.DB
}

func NewStewardStore(db *gorm.DB) *StewardStore {
	return &StewardStore{db: db}
}

func (s *StewardStore) HasSteward(ctx context.Context, userID uint, categorySlug string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.CategoryModerator{}).
		Where("user_id = ? AND category_slug = ?", userID, categorySlug).
		Count(&count).Error
	return count > 0, err
}

func (s *StewardStore) AssignSteward(ctx context.Context, userID uint, categorySlug string) error {
	grant := models.CategoryModerator{UserID: userID, CategorySlug: categorySlug}
	// Re-granting an existing steward is a no-op.
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&grant).Error
}

func (s *StewardStore) RemoveSteward(ctx context.Context, userID uint, categorySlug string) error {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND category_slug = ?", userID, categorySlug).
		Delete(&models.CategoryModerator{}).Error
}

func (s *StewardStore) GetCategory(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}
