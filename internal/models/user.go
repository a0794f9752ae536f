package models

import (
	"time"
)

// Role is the ordered global permission tier of a user. EventAnalyst sits
// outside the linear hierarchy and only unlocks the events studio.
type Role string

const (
	RoleGuest        Role = "guest"
	RoleUser         Role = "user"
	RoleHighLevel    Role = "high_level"
	RoleModerator    Role = "moderator"
	RoleAdmin        Role = "admin"
	RoleSuperAdmin   Role = "super_admin"
	RoleEventAnalyst Role = "event_analyst"
)

var roleLevels = map[Role]int{
	RoleGuest:      0,
	RoleUser:       1,
	RoleHighLevel:  2,
	RoleModerator:  3,
	RoleAdmin:      4,
	RoleSuperAdmin: 5,
}

// Level returns the position of the role in the hierarchy. Roles outside the
// linear ladder (event_analyst, unknown values) rank as guest.
func (r Role) Level() int {
	return roleLevels[r]
}

// AtLeast reports whether r ranks at or above other in the hierarchy.
func (r Role) AtLeast(other Role) bool {
	return r.Level() >= other.Level()
}

type User struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Username         *string   `gorm:"uniqueIndex;size:30" json:"username"` // nil until onboarding
	Email            string    `gorm:"uniqueIndex;not null" json:"email"`
	Password         string    `gorm:"not null" json:"-"` // bcrypt hash
	Role             Role      `gorm:"size:20;default:'user';not null" json:"role"`
	ReputationPoints int       `gorm:"default:0;not null" json:"reputation_points"`
	IsBanned         bool      `gorm:"default:false;not null" json:"is_banned"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	// Users are never hard-deleted in-app; bans are the only removal concept.
}

// Name returns the claimed username, or a placeholder before onboarding.
func (u *User) Name() string {
	if u.Username != nil {
		return *u.Username
	}
	return "(unclaimed)"
}
