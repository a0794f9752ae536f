package forum

import (
	"bullpen/internal/models"
)

// Capability predicates. Role comparisons live here and nowhere else so the
// string values never get compared ad hoc at call sites.

// IsGlobalAdmin reports whether the user holds site-wide moderation power.
func IsGlobalAdmin(u *models.User) bool {
	if u == nil {
		return false
	}
	return u.Role == models.RoleAdmin || u.Role == models.RoleSuperAdmin
}

// CanAccessStudio reports whether the user may enter the events studio.
// The event_analyst tag is orthogonal to the linear hierarchy; global
// admins also pass.
func CanAccessStudio(u *models.User) bool {
	if u == nil {
		return false
	}
	return u.Role == models.RoleEventAnalyst || IsGlobalAdmin(u)
}

// HasReputationFor reports whether the user's points meet a gate threshold.
func HasReputationFor(u *models.User, threshold int) bool {
	if u == nil {
		return false
	}
	return u.ReputationPoints >= threshold
}

// canBan applies the ban hierarchy: an admin may not ban an admin or a
// super_admin; a super_admin may ban anyone.
func canBan(actor, target *models.User) bool {
	if actor.Role == models.RoleSuperAdmin {
		return true
	}
	return !target.Role.AtLeast(models.RoleAdmin)
}
