package models

import (
	"html/template"
	"time"
)

type Comment struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	ThreadID uint   `gorm:"not null;index" json:"thread_id"`
	Thread   Thread `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"thread"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Author   User   `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	// ParentID forms a forest within the thread. It must reference a comment
	// in the same thread; writes with cross-thread or unknown parents are
	// rejected at creation time.
	ParentID   *uint    `gorm:"index" json:"parent_id"`
	Parent     *Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"parent"`
	Content    string   `gorm:"type:text;not null" json:"content"`
	LikesCount int      `gorm:"default:0;not null" json:"likes_count"`

	// ContentHTML is derived at response time, never stored.
	ContentHTML template.HTML `gorm:"-" json:"content_html,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	DeletedAt      *time.Time `gorm:"index" json:"deleted_at"`
	DeletedBy      *uint      `json:"deleted_by"`
	DeletionReason string     `gorm:"size:200" json:"deletion_reason"`
}

func (c *Comment) IsDeleted() bool {
	return c.DeletedAt != nil
}
