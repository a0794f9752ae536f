package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"bullpen/internal/models"
)

// ContentStore is the privileged content access used by the moderation
// engine. Unlike the handlers, it applies no ownership checks: the engine
// gates every call before it reaches here.
type ContentStore struct {
	db *gorm.DB
}

func NewContentStore(db *gorm.DB) *ContentStore {
	return &ContentStore{db: db}
}

func (s *ContentStore) ContentAuthor(ctx context.Context, targetType string, targetID uint) (uint, error) {
	switch targetType {
	case models.TargetThread:
		var thread models.Thread
		if err := s.db.WithContext(ctx).Select("author_id").First(&thread, targetID).Error; err != nil {
			return 0, err
		}
		return thread.AuthorID, nil
	case models.TargetComment:
		var comment models.Comment
		if err := s.db.WithContext(ctx).Select("author_id").First(&comment, targetID).Error; err != nil {
			return 0, err
		}
		return comment.AuthorID, nil
	}
	return 0, fmt.Errorf("unknown target type %q", targetType)
}

// HardDelete removes the row outright. Deleting a thread cascades to its
// comments through the foreign key.
func (s *ContentStore) HardDelete(ctx context.Context, targetType string, targetID uint) error {
	switch targetType {
	case models.TargetThread:
		return s.db.WithContext(ctx).Unscoped().Delete(&models.Thread{}, targetID).Error
	case models.TargetComment:
		return s.db.WithContext(ctx).Unscoped().Delete(&models.Comment{}, targetID).Error
	}
	return fmt.Errorf("unknown target type %q", targetType)
}

func (s *ContentStore) ThreadCategory(ctx context.Context, threadID uint) (string, error) {
	var thread models.Thread
	if err := s.db.WithContext(ctx).Preload("Category").First(&thread, threadID).Error; err != nil {
		return "", err
	}
	return thread.Category.Slug, nil
}

func (s *ContentStore) SetThreadPinned(ctx context.Context, threadID uint, pinned bool) error {
	return s.db.WithContext(ctx).Model(&models.Thread{}).
		Where("id = ?", threadID).
		Update("is_pinned", pinned).Error
}

func (s *ContentStore) SetThreadLocked(ctx context.Context, threadID uint, locked bool) error {
	return s.db.WithContext(ctx).Model(&models.Thread{}).
		Where("id = ?", threadID).
		Update("is_locked", locked).Error
}
