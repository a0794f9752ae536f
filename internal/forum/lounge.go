package forum

import (
	"context"
	"fmt"

	"bullpen/internal/config"
	"bullpen/internal/models"
)

// Lounge denial reasons. The ban check always runs before the restriction
// logic, so a banned user sees ReasonBanned even with enough reputation.
const (
	ReasonBanned        = "Banned"
	ReasonLoginRequired = "Login required"
)

// LoungeDecision is the result of an access check on a restricted category.
type LoungeDecision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// IsSteward reports whether the actor moderates the category: global admins
// always do, otherwise a steward grant for (actor, category) must exist.
func (e *Engine) IsSteward(ctx context.Context, actor *models.User, categorySlug string) (bool, error) {
	if actor == nil {
		return false, nil
	}
	if IsGlobalAdmin(actor) {
		return true, nil
	}
	ok, err := e.stewards.HasSteward(ctx, actor.ID, categorySlug)
	if err != nil {
		return false, upstream("steward lookup", err)
	}
	return ok, nil
}

// CanAccessLounge decides whether the actor may enter a category.
// Categories default open. Restricted ones admit global admins, high_level
// users when the category's floor is high_level, and anyone whose
// reputation clears the VIP threshold as a fallback to the role gate.
func (e *Engine) CanAccessLounge(ctx context.Context, actor *models.User, categorySlug string) (LoungeDecision, error) {
	if actor != nil && actor.IsBanned {
		return LoungeDecision{Allowed: false, Reason: ReasonBanned}, nil
	}
	if actor == nil {
		return LoungeDecision{Allowed: false, Reason: ReasonLoginRequired}, nil
	}

	category, err := e.stewards.GetCategory(ctx, categorySlug)
	if err != nil {
		return LoungeDecision{}, ErrNotFound
	}
	if !category.IsRestricted {
		return LoungeDecision{Allowed: true}, nil
	}
	if IsGlobalAdmin(actor) {
		return LoungeDecision{Allowed: true}, nil
	}
	if category.MinRole == models.RoleHighLevel && actor.Role == models.RoleHighLevel {
		return LoungeDecision{Allowed: true}, nil
	}
	if HasReputationFor(actor, config.VIPLoungeAccess) {
		return LoungeDecision{Allowed: true}, nil
	}
	return LoungeDecision{
		Allowed: false,
		Reason:  fmt.Sprintf("Requires %s role or %d+ reputation", category.MinRole, config.VIPLoungeAccess),
	}, nil
}

// AssignSteward grants category moderation to a user. Only global admins
// may grant; existing stewards cannot delegate.
func (e *Engine) AssignSteward(ctx context.Context, actor *models.User, userID uint, categorySlug string) error {
	if err := e.ensureAdmin(actor); err != nil {
		return err
	}
	if _, err := e.profiles.GetUser(ctx, userID); err != nil {
		return ErrNotFound
	}
	if _, err := e.stewards.GetCategory(ctx, categorySlug); err != nil {
		return ErrNotFound
	}
	if err := e.stewards.AssignSteward(ctx, userID, categorySlug); err != nil {
		return upstream("assign steward", err)
	}
	e.writeAudit(ctx, actor.ID, models.ActionAssignSteward, userID, map[string]interface{}{"category": categorySlug})
	return nil
}

// RemoveSteward revokes a steward grant. Global-admin-only, like Assign.
func (e *Engine) RemoveSteward(ctx context.Context, actor *models.User, userID uint, categorySlug string) error {
	if err := e.ensureAdmin(actor); err != nil {
		return err
	}
	if err := e.stewards.RemoveSteward(ctx, userID, categorySlug); err != nil {
		return upstream("remove steward", err)
	}
	e.writeAudit(ctx, actor.ID, models.ActionRemoveSteward, userID, map[string]interface{}{"category": categorySlug})
	return nil
}

// StewardPinThread pins or unpins a thread in a category the actor
// stewards. The write goes through the privileged content store path: a
// steward is neither the author nor a global admin, so the ordinary
// ownership rule would reject the mutation. The IsSteward check here is the
// actual gate.
func (e *Engine) StewardPinThread(ctx context.Context, actor *models.User, threadID uint, pinned bool) error {
	slug, err := e.stewardGate(ctx, actor, threadID)
	if err != nil {
		return err
	}
	if err := e.content.SetThreadPinned(ctx, threadID, pinned); err != nil {
		return upstream("pin thread", err)
	}
	e.writeAudit(ctx, actor.ID, models.ActionPinThread, threadID, map[string]interface{}{"category": slug, "pinned": pinned})
	return nil
}

// StewardLockThread locks or unlocks a thread, same gating as pin.
func (e *Engine) StewardLockThread(ctx context.Context, actor *models.User, threadID uint, locked bool) error {
	slug, err := e.stewardGate(ctx, actor, threadID)
	if err != nil {
		return err
	}
	if err := e.content.SetThreadLocked(ctx, threadID, locked); err != nil {
		return upstream("lock thread", err)
	}
	e.writeAudit(ctx, actor.ID, models.ActionLockThread, threadID, map[string]interface{}{"category": slug, "locked": locked})
	return nil
}

func (e *Engine) stewardGate(ctx context.Context, actor *models.User, threadID uint) (string, error) {
	if actor == nil {
		return "", ErrUnauthorized
	}
	slug, err := e.content.ThreadCategory(ctx, threadID)
	if err != nil {
		return "", ErrNotFound
	}
	ok, err := e.IsSteward(ctx, actor, slug)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrForbidden
	}
	return slug, nil
}
