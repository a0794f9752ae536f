package models

import (
	"time"
)

// ThreadView records when a user last opened a thread. The timestamp feeds
// the "new since last view" affordance in the live comment feed.
type ThreadView struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index;uniqueIndex:idx_thread_view" json:"user_id"`
	ThreadID     uint      `gorm:"not null;index;uniqueIndex:idx_thread_view" json:"thread_id"`
	LastViewedAt time.Time `gorm:"not null" json:"last_viewed_at"`
}
