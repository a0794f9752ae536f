package models

import (
	"time"
)

type Category struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Slug         string    `gorm:"uniqueIndex;size:50;not null" json:"slug"`
	Name         string    `gorm:"not null" json:"name"`
	Description  string    `json:"description"`
	IsRestricted bool      `gorm:"default:false" json:"is_restricted"` // lounge-style category
	MinRole      Role      `gorm:"size:20;default:'user'" json:"min_role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CategoryModerator grants one user moderation rights scoped to one
// category, independent of their global role ("steward").
type CategoryModerator struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index;uniqueIndex:idx_steward" json:"user_id"`
	User         User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	CategorySlug string    `gorm:"size:50;not null;index;uniqueIndex:idx_steward" json:"category_slug"`
	CreatedAt    time.Time `json:"created_at"`
}
