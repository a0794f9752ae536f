package models

import (
	"time"
)

type NotificationType string

const (
	NotificationTypeReplyThread  NotificationType = "reply_thread"
	NotificationTypeReplyComment NotificationType = "reply_comment"
	NotificationTypeMention      NotificationType = "mention"
	NotificationTypeLike         NotificationType = "like"
)

type Notification struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	UserID  uint  `gorm:"not null;index" json:"user_id"` // receiver
	User    User  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	ActorID *uint `gorm:"index" json:"actor_id"` // trigger
	Actor   User  `gorm:"foreignKey:ActorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"actor"`

	Type NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	// ResourceID identifies the thread/comment that triggered the
	// notification; ResourceSlug is the thread the client should deep-link to.
	ResourceID     string    `gorm:"size:50" json:"resource_id"`
	ResourceSlug   string    `gorm:"size:50" json:"resource_slug"`
	ContentPreview string    `gorm:"size:200" json:"content_preview"`
	IsRead         bool      `gorm:"default:false;index" json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}
