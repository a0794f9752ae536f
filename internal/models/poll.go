package models

import (
	"time"
)

// Poll belongs to a thread. A thread owns at most one active (open) poll;
// closed polls stay around as history.
type Poll struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	ThreadID      uint         `gorm:"not null;index" json:"thread_id"`
	Thread        Thread       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"thread"`
	Question      string       `gorm:"not null" json:"question"`
	AllowMultiple bool         `gorm:"default:false" json:"allow_multiple"`
	IsClosed      bool         `gorm:"default:false;index" json:"is_closed"`
	Options       []PollOption `json:"options"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

type PollOption struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	PollID uint   `gorm:"not null;index" json:"poll_id"`
	Label  string `gorm:"not null" json:"label"`
	Votes  int    `gorm:"default:0;not null" json:"votes"`
}

// PollVote records one user's vote for one option. The unique index is what
// enforces vote-once; with allow_multiple a user may hold one row per option.
type PollVote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PollID    uint      `gorm:"not null;index;uniqueIndex:idx_poll_vote" json:"poll_id"`
	OptionID  uint      `gorm:"not null;uniqueIndex:idx_poll_vote" json:"option_id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_poll_vote" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
