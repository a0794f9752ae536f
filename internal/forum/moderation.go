package forum

import (
	"context"
	"fmt"
	"log"

	"bullpen/internal/models"
)

const (
	userListLimit  = 50
	adminLogsLimit = 50
)

// ProfileStore is key-value-by-id access to user records.
type ProfileStore interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
	SetBanned(ctx context.Context, id uint, banned bool) error
	SearchUsers(ctx context.Context, search string, limit int) ([]models.User, error)
}

// ReportStore persists reports and their single status transition.
type ReportStore interface {
	CreateReport(ctx context.Context, report *models.Report) error
	GetReport(ctx context.Context, id uint) (*models.Report, error)
	TransitionReport(ctx context.Context, id uint, status models.ReportStatus, resolvedBy uint) error
	ListReports(ctx context.Context, status models.ReportStatus, limit int) ([]models.Report, error)
}

// ContentStore gives the engine privileged access to threads and comments.
// The pin/lock mutations deliberately bypass the per-row ownership rule the
// public handlers enforce; the IsSteward gate runs first in engine code.
type ContentStore interface {
	ContentAuthor(ctx context.Context, targetType string, targetID uint) (uint, error)
	HardDelete(ctx context.Context, targetType string, targetID uint) error
	ThreadCategory(ctx context.Context, threadID uint) (string, error)
	SetThreadPinned(ctx context.Context, threadID uint, pinned bool) error
	SetThreadLocked(ctx context.Context, threadID uint, locked bool) error
}

// AuditStore is the append-only audit trail.
type AuditStore interface {
	AppendLog(ctx context.Context, entry *models.AdminLog) error
	RecentLogs(ctx context.Context, limit int) ([]models.AdminLog, error)
}

// StewardStore manages category-scoped moderator grants.
type StewardStore interface {
	HasSteward(ctx context.Context, userID uint, categorySlug string) (bool, error)
	AssignSteward(ctx context.Context, userID uint, categorySlug string) error
	RemoveSteward(ctx context.Context, userID uint, categorySlug string) error
	GetCategory(ctx context.Context, slug string) (*models.Category, error)
}

// Engine is the moderation/authorization core. The acting identity is passed
// into every call (nil means no session) instead of being read from any
// request-global state, so every gate is deterministic under test.
type Engine struct {
	profiles ProfileStore
	reports  ReportStore
	content  ContentStore
	audit    AuditStore
	stewards StewardStore
}

func NewEngine(profiles ProfileStore, reports ReportStore, content ContentStore, audit AuditStore, stewards StewardStore) *Engine {
	return &Engine{
		profiles: profiles,
		reports:  reports,
		content:  content,
		audit:    audit,
		stewards: stewards,
	}
}

// ensureAdmin gates every privileged read and mutation.
func (e *Engine) ensureAdmin(actor *models.User) error {
	if actor == nil {
		return ErrUnauthorized
	}
	if !IsGlobalAdmin(actor) {
		return ErrForbidden
	}
	return nil
}

// writeAudit appends to the audit trail. The trail is best-effort relative
// to the action it records: a failed append is logged, not propagated.
func (e *Engine) writeAudit(ctx context.Context, adminID uint, action string, targetID uint, details map[string]interface{}) {
	entry := &models.AdminLog{
		AdminID:  adminID,
		Action:   action,
		TargetID: targetID,
		Details:  details,
	}
	if err := e.audit.AppendLog(ctx, entry); err != nil {
		log.Printf("[audit] append failed (action=%s target=%d): %v", action, targetID, err)
	}
}

// ReportContent files a report against a thread or comment. Any
// authenticated user may report; there is no role floor and no
// duplicate-report suppression.
func (e *Engine) ReportContent(ctx context.Context, actor *models.User, targetType string, targetID uint, reason string) (*models.Report, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}
	if targetType != models.TargetThread && targetType != models.TargetComment {
		return nil, fmt.Errorf("%w: unknown target type %q", ErrConflict, targetType)
	}
	report := &models.Report{
		ReporterID: actor.ID,
		TargetType: targetType,
		TargetID:   targetID,
		Reason:     reason,
		Status:     models.ReportPending,
	}
	if err := e.reports.CreateReport(ctx, report); err != nil {
		return nil, upstream("report content", err)
	}
	return report, nil
}

// ListReports returns reports filtered by status, newest first.
func (e *Engine) ListReports(ctx context.Context, actor *models.User, status models.ReportStatus) ([]models.Report, error) {
	if err := e.ensureAdmin(actor); err != nil {
		return nil, err
	}
	reports, err := e.reports.ListReports(ctx, status, userListLimit)
	if err != nil {
		return nil, upstream("list reports", err)
	}
	return reports, nil
}

// ResolveReport transitions a pending report to resolved or dismissed.
// The transition is one-shot: re-resolving a terminal report is rejected.
func (e *Engine) ResolveReport(ctx context.Context, actor *models.User, reportID uint, outcome models.ReportStatus) error {
	if err := e.ensureAdmin(actor); err != nil {
		return err
	}
	if outcome != models.ReportResolved && outcome != models.ReportDismissed {
		return fmt.Errorf("%w: invalid outcome %q", ErrConflict, outcome)
	}
	report, err := e.reports.GetReport(ctx, reportID)
	if err != nil {
		return ErrNotFound
	}
	if report.Status.Terminal() {
		return fmt.Errorf("%w: report %d already %s", ErrConflict, reportID, report.Status)
	}
	if err := e.reports.TransitionReport(ctx, reportID, outcome, actor.ID); err != nil {
		return upstream("resolve report", err)
	}
	e.writeAudit(ctx, actor.ID, models.ActionResolveReport, reportID, map[string]interface{}{"outcome": string(outcome)})
	return nil
}

// BanUser bans a user, subject to the hierarchy: an admin cannot ban an
// admin or super_admin, a super_admin can ban anyone, and nobody bans
// themselves.
func (e *Engine) BanUser(ctx context.Context, actor *models.User, targetID uint) error {
	if err := e.ensureAdmin(actor); err != nil {
		return err
	}
	if actor.ID == targetID {
		return fmt.Errorf("%w: cannot ban yourself", ErrConflict)
	}
	target, err := e.profiles.GetUser(ctx, targetID)
	if err != nil {
		return ErrNotFound
	}
	if !canBan(actor, target) {
		return fmt.Errorf("%w: cannot ban a user with role %s", ErrConflict, target.Role)
	}
	if err := e.profiles.SetBanned(ctx, targetID, true); err != nil {
		return upstream("ban user", err)
	}
	e.writeAudit(ctx, actor.ID, models.ActionBanUser, targetID, map[string]interface{}{"targetRole": string(target.Role)})
	return nil
}

// UnbanUser lifts a ban. No hierarchy check applies here; the asymmetry
// with BanUser is inherited behavior, kept on purpose.
func (e *Engine) UnbanUser(ctx context.Context, actor *models.User, targetID uint) error {
	if err := e.ensureAdmin(actor); err != nil {
		return err
	}
	if _, err := e.profiles.GetUser(ctx, targetID); err != nil {
		return ErrNotFound
	}
	if err := e.profiles.SetBanned(ctx, targetID, false); err != nil {
		return upstream("unban user", err)
	}
	e.writeAudit(ctx, actor.ID, models.ActionUnbanUser, targetID, nil)
	return nil
}

// BanReportTargetAuthor resolves a report to the author of the reported
// content and bans them through the same path as BanUser, hierarchy check
// included.
func (e *Engine) BanReportTargetAuthor(ctx context.Context, actor *models.User, reportID uint) error {
	if err := e.ensureAdmin(actor); err != nil {
		return err
	}
	report, err := e.reports.GetReport(ctx, reportID)
	if err != nil {
		return ErrNotFound
	}
	authorID, err := e.content.ContentAuthor(ctx, report.TargetType, report.TargetID)
	if err != nil {
		return ErrNotFound
	}
	return e.BanUser(ctx, actor, authorID)
}

// AdminDeleteContent removes a thread or comment outright. This is the hard
// delete path; author-initiated deletion elsewhere only soft-deletes.
func (e *Engine) AdminDeleteContent(ctx context.Context, actor *models.User, targetType string, targetID uint) error {
	if err := e.ensureAdmin(actor); err != nil {
		return err
	}
	var action string
	switch targetType {
	case models.TargetThread:
		action = models.ActionDeleteThread
	case models.TargetComment:
		action = models.ActionDeleteComment
	default:
		return fmt.Errorf("%w: unknown target type %q", ErrConflict, targetType)
	}
	if err := e.content.HardDelete(ctx, targetType, targetID); err != nil {
		return upstream("delete content", err)
	}
	e.writeAudit(ctx, actor.ID, action, targetID, nil)
	return nil
}

// GetUsers returns up to 50 profiles, optionally filtered by a
// case-insensitive partial username match.
func (e *Engine) GetUsers(ctx context.Context, actor *models.User, search string) ([]models.User, error) {
	if err := e.ensureAdmin(actor); err != nil {
		return nil, err
	}
	users, err := e.profiles.SearchUsers(ctx, search, userListLimit)
	if err != nil {
		return nil, upstream("list users", err)
	}
	return users, nil
}

// GetAdminLogs returns the latest 50 audit entries with the acting admin's
// profile attached. Entries produced by a super_admin are redacted from the
// result unless the caller is a super_admin, so a plain admin never sees
// super_admin actions.
func (e *Engine) GetAdminLogs(ctx context.Context, actor *models.User) ([]models.AdminLog, error) {
	if err := e.ensureAdmin(actor); err != nil {
		return nil, err
	}
	entries, err := e.audit.RecentLogs(ctx, adminLogsLimit)
	if err != nil {
		return nil, upstream("list admin logs", err)
	}
	if actor.Role == models.RoleSuperAdmin {
		return entries, nil
	}
	visible := make([]models.AdminLog, 0, len(entries))
	for _, entry := range entries {
		if entry.Admin.Role == models.RoleSuperAdmin {
			continue
		}
		visible = append(visible, entry)
	}
	return visible, nil
}
