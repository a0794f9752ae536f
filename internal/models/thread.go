package models

import (
	"html/template"
	"time"
)

type Thread struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	Tid        string   `gorm:"uniqueIndex;size:8;not null" json:"tid"` // public slug used in URLs
	AuthorID   uint     `gorm:"not null;index" json:"author_id"`
	Author     User     `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	CategoryID uint     `gorm:"not null;index" json:"category_id"`
	Category   Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"category"`
	Title      string   `gorm:"not null" json:"title"`
	Content    string   `gorm:"type:text" json:"content"`
	Tags       []string `gorm:"serializer:json" json:"tags"`

	// ContentHTML is derived at response time, never stored.
	ContentHTML template.HTML `gorm:"-" json:"content_html,omitempty"`

	// Denormalized counters, kept with atomic `count + ?` updates.
	LikesCount int `gorm:"default:0;not null" json:"likes_count"`
	ReplyCount int `gorm:"default:0;not null" json:"reply_count"`
	Views      int `gorm:"default:0;not null" json:"views"`

	IsPinned bool `gorm:"default:false;index" json:"is_pinned"`
	IsLocked bool `gorm:"default:false" json:"is_locked"` // locked threads accept no new comments

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Author-initiated deletion is soft; admin deletion removes the row.
	DeletedAt      *time.Time `gorm:"index" json:"deleted_at"`
	DeletedBy      *uint      `json:"deleted_by"`
	DeletionReason string     `gorm:"size:200" json:"deletion_reason"`
}

func (t *Thread) IsDeleted() bool {
	return t.DeletedAt != nil
}
