package models

import (
	"time"
)

// Report target kinds.
const (
	TargetThread  = "thread"
	TargetComment = "comment"
)

type ReportStatus string

const (
	ReportPending   ReportStatus = "pending"
	ReportResolved  ReportStatus = "resolved"
	ReportDismissed ReportStatus = "dismissed"
)

// Terminal reports whether the status can no longer transition.
func (s ReportStatus) Terminal() bool {
	return s == ReportResolved || s == ReportDismissed
}

type Report struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	ReporterID uint         `gorm:"not null;index" json:"reporter_id"`
	Reporter   User         `gorm:"foreignKey:ReporterID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"reporter"`
	TargetType string       `gorm:"size:20;not null" json:"target_type"` // thread | comment
	TargetID   uint         `gorm:"not null;index" json:"target_id"`
	Reason     string       `gorm:"size:200;not null" json:"reason"`
	Status     ReportStatus `gorm:"size:20;default:'pending';not null;index" json:"status"`
	ResolvedBy *uint        `json:"resolved_by"`
	ResolvedAt *time.Time   `json:"resolved_at"`
	CreatedAt  time.Time    `json:"created_at"`
}
