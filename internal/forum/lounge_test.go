package forum

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"bullpen/internal/models"
)

func (f *fixture) addCategory(slug string, restricted bool, minRole models.Role) {
	f.stewards.categories[slug] = &models.Category{
		Slug:         slug,
		IsRestricted: restricted,
		MinRole:      minRole,
	}
}

func TestCanAccessLounge_OpenCategory(t *testing.T) {
	f := newFixture()
	f.addCategory("markets", false, "")
	user := f.addUser(1, models.RoleUser)

	decision, err := f.engine.CanAccessLounge(context.Background(), user, "markets")
	assert.NoError(t, err)
	assert.True(t, decision.Allowed)
}

func TestCanAccessLounge_AnonymousDenied(t *testing.T) {
	f := newFixture()
	f.addCategory("vip-lounge", true, models.RoleHighLevel)

	decision, err := f.engine.CanAccessLounge(context.Background(), nil, "vip-lounge")
	assert.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonLoginRequired, decision.Reason)
}

func TestCanAccessLounge_BannedAlwaysDenied(t *testing.T) {
	f := newFixture()
	f.addCategory("vip-lounge", true, models.RoleHighLevel)
	user := f.addUser(1, models.RoleHighLevel)
	user.ReputationPoints = 900
	user.IsBanned = true

	decision, err := f.engine.CanAccessLounge(context.Background(), user, "vip-lounge")
	assert.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonBanned, decision.Reason)
}

func TestCanAccessLounge_ReputationThreshold(t *testing.T) {
	f := newFixture()
	f.addCategory("vip-lounge", true, models.RoleHighLevel)

	poor := f.addUser(1, models.RoleUser)
	poor.ReputationPoints = 499
	decision, err := f.engine.CanAccessLounge(context.Background(), poor, "vip-lounge")
	assert.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Contains(t, decision.Reason, "500+")

	rich := f.addUser(2, models.RoleUser)
	rich.ReputationPoints = 500
	decision, err = f.engine.CanAccessLounge(context.Background(), rich, "vip-lounge")
	assert.NoError(t, err)
	assert.True(t, decision.Allowed)
}

func TestCanAccessLounge_RoleGate(t *testing.T) {
	f := newFixture()
	f.addCategory("vip-lounge", true, models.RoleHighLevel)

	high := f.addUser(1, models.RoleHighLevel)
	decision, _ := f.engine.CanAccessLounge(context.Background(), high, "vip-lounge")
	assert.True(t, decision.Allowed)

	admin := f.addUser(2, models.RoleAdmin)
	decision, _ = f.engine.CanAccessLounge(context.Background(), admin, "vip-lounge")
	assert.True(t, decision.Allowed)

	plain := f.addUser(3, models.RoleUser)
	decision, _ = f.engine.CanAccessLounge(context.Background(), plain, "vip-lounge")
	assert.False(t, decision.Allowed)
}

func TestCanAccessLounge_UnknownCategory(t *testing.T) {
	f := newFixture()
	user := f.addUser(1, models.RoleUser)
	_, err := f.engine.CanAccessLounge(context.Background(), user, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIsSteward(t *testing.T) {
	f := newFixture()
	admin := f.addUser(1, models.RoleAdmin)
	user := f.addUser(2, models.RoleUser)

	ok, err := f.engine.IsSteward(context.Background(), admin, "markets")
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, _ = f.engine.IsSteward(context.Background(), user, "markets")
	assert.False(t, ok)

	f.stewards.grants[stewardKey(user.ID, "markets")] = true
	ok, _ = f.engine.IsSteward(context.Background(), user, "markets")
	assert.True(t, ok)

	ok, _ = f.engine.IsSteward(context.Background(), nil, "markets")
	assert.False(t, ok)
}

func TestAssignSteward_AdminOnlyAndAudited(t *testing.T) {
	f := newFixture()
	admin := f.addUser(1, models.RoleAdmin)
	user := f.addUser(2, models.RoleUser)
	f.addCategory("crypto", false, "")

	err := f.engine.AssignSteward(context.Background(), user, 2, "crypto")
	assert.ErrorIs(t, err, ErrForbidden)

	err = f.engine.AssignSteward(context.Background(), admin, 2, "crypto")
	assert.NoError(t, err)
	assert.True(t, f.stewards.grants[stewardKey(2, "crypto")])
	assert.Equal(t, models.ActionAssignSteward, f.audit.entries[0].Action)
	assert.Equal(t, "crypto", f.audit.entries[0].Details["category"])

	// A steward cannot delegate.
	err = f.engine.AssignSteward(context.Background(), user, 1, "crypto")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAssignSteward_UnknownUserOrCategory(t *testing.T) {
	f := newFixture()
	admin := f.addUser(1, models.RoleAdmin)
	f.addCategory("crypto", false, "")

	err := f.engine.AssignSteward(context.Background(), admin, 99, "crypto")
	assert.ErrorIs(t, err, ErrNotFound)

	err = f.engine.AssignSteward(context.Background(), admin, 1, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStewardPinAndLock(t *testing.T) {
	f := newFixture()
	steward := f.addUser(1, models.RoleUser)
	outsider := f.addUser(2, models.RoleUser)
	f.addCategory("markets", false, "")
	f.content.categories[10] = "markets"
	f.stewards.grants[stewardKey(steward.ID, "markets")] = true

	err := f.engine.StewardPinThread(context.Background(), steward, 10, true)
	assert.NoError(t, err)
	assert.True(t, f.content.pinned[10])

	err = f.engine.StewardLockThread(context.Background(), steward, 10, true)
	assert.NoError(t, err)
	assert.True(t, f.content.locked[10])

	// Grants are category-scoped: no grant, no pin.
	err = f.engine.StewardPinThread(context.Background(), outsider, 10, true)
	assert.ErrorIs(t, err, ErrForbidden)

	err = f.engine.StewardLockThread(context.Background(), nil, 10, true)
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = f.engine.StewardPinThread(context.Background(), steward, 99, true)
	assert.ErrorIs(t, err, ErrNotFound)
}
