package store

import (
	"context"

	"gorm.io/gorm"

	"bullpen/internal/models"
)

// ProfileStore is the GORM-backed user profile access used by the
// moderation engine.
type ProfileStore struct {
	db *gorm.DB
}

func NewProfileStore(db *gorm.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

func (s *ProfileStore) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *ProfileStore) SetBanned(ctx context.Context, id uint, banned bool) error {
	return s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("is_banned", banned).Error
}

func (s *ProfileStore) SearchUsers(ctx context.Context, search string, limit int) ([]models.User, error) {
	query := s.db.WithContext(ctx).Model(&models.User{}).Order("created_at DESC").Limit(limit)
	if search != "" {
		query = query.Where("username ILIKE ?", "%"+search+"%")
	}
	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ResolveUsernames returns the users whose claimed username exactly matches
// one of the candidates. Unknown names simply do not appear.
func (s *ProfileStore) ResolveUsernames(ctx context.Context, usernames []string) ([]models.User, error) {
	if len(usernames) == 0 {
		return nil, nil
	}
	var users []models.User
	if err := s.db.WithContext(ctx).Where("username IN ?", usernames).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
