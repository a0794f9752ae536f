package forum

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bullpen/internal/models"
)

func TestIsGlobalAdmin(t *testing.T) {
	assert.False(t, IsGlobalAdmin(nil))
	assert.False(t, IsGlobalAdmin(&models.User{Role: models.RoleModerator}))
	assert.True(t, IsGlobalAdmin(&models.User{Role: models.RoleAdmin}))
	assert.True(t, IsGlobalAdmin(&models.User{Role: models.RoleSuperAdmin}))
}

func TestCanAccessStudio(t *testing.T) {
	assert.False(t, CanAccessStudio(nil))
	assert.False(t, CanAccessStudio(&models.User{Role: models.RoleHighLevel}))
	assert.True(t, CanAccessStudio(&models.User{Role: models.RoleEventAnalyst}))
	assert.True(t, CanAccessStudio(&models.User{Role: models.RoleAdmin}))
}

func TestRoleOrdering(t *testing.T) {
	assert.True(t, models.RoleSuperAdmin.AtLeast(models.RoleAdmin))
	assert.True(t, models.RoleAdmin.AtLeast(models.RoleAdmin))
	assert.False(t, models.RoleModerator.AtLeast(models.RoleAdmin))
	// Roles outside the ladder rank as guest.
	assert.False(t, models.RoleEventAnalyst.AtLeast(models.RoleUser))
}
