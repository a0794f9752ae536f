package models

import (
	"time"
)

// ThreadLike is the unique vote record behind Thread.LikesCount. The
// unique index spans (user, thread) only, so one user holds at most one
// vote per thread in either direction.
type ThreadLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_thread_like" json:"user_id"`
	ThreadID  uint      `gorm:"not null;index;uniqueIndex:idx_thread_like" json:"thread_id"`
	IsDown    bool      `gorm:"default:false;not null" json:"is_down"`
	CreatedAt time.Time `json:"created_at"`
}

type CommentLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_comment_like" json:"user_id"`
	CommentID uint      `gorm:"not null;index;uniqueIndex:idx_comment_like" json:"comment_id"`
	IsDown    bool      `gorm:"default:false;not null" json:"is_down"`
	CreatedAt time.Time `json:"created_at"`
}
