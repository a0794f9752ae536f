package models

import (
	"time"
)

// Audit action tags.
const (
	ActionResolveReport = "resolve_report"
	ActionBanUser       = "ban_user"
	ActionUnbanUser     = "unban_user"
	ActionDeleteThread  = "delete_thread"
	ActionDeleteComment = "delete_comment"
	ActionAssignSteward = "assign_steward"
	ActionRemoveSteward = "remove_steward"
	ActionPinThread     = "pin_thread"
	ActionLockThread    = "lock_thread"
)

// AdminLog is an append-only audit record of privileged actions. Rows are
// never mutated or deleted.
type AdminLog struct {
	ID        uint                   `gorm:"primaryKey" json:"id"`
	AdminID   uint                   `gorm:"not null;index" json:"admin_id"`
	Admin     User                   `gorm:"foreignKey:AdminID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"admin"`
	Action    string                 `gorm:"size:50;not null;index" json:"action"`
	TargetID  uint                   `gorm:"index" json:"target_id"`
	Details   map[string]interface{} `gorm:"serializer:json" json:"details"`
	CreatedAt time.Time              `json:"created_at"`
}
