package forum

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"bullpen/internal/models"
)

// In-memory stores backing the engine under test. Shared with the lounge
// tests in this package.

type memProfiles struct {
	users map[uint]*models.User
}

func (m *memProfiles) GetUser(_ context.Context, id uint) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (m *memProfiles) SetBanned(_ context.Context, id uint, banned bool) error {
	u, ok := m.users[id]
	if !ok {
		return errors.New("not found")
	}
	u.IsBanned = banned
	return nil
}

func (m *memProfiles) SearchUsers(_ context.Context, search string, limit int) ([]models.User, error) {
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memProfiles) ResolveUsernames(_ context.Context, usernames []string) ([]models.User, error) {
	var out []models.User
	for _, u := range m.users {
		for _, name := range usernames {
			if u.Username != nil && *u.Username == name {
				out = append(out, *u)
			}
		}
	}
	return out, nil
}

type memReports struct {
	reports map[uint]*models.Report
	nextID  uint
}

func (m *memReports) CreateReport(_ context.Context, report *models.Report) error {
	m.nextID++
	report.ID = m.nextID
	report.CreatedAt = time.Now()
	m.reports[report.ID] = report
	return nil
}

func (m *memReports) GetReport(_ context.Context, id uint) (*models.Report, error) {
	r, ok := m.reports[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return r, nil
}

func (m *memReports) TransitionReport(_ context.Context, id uint, status models.ReportStatus, resolvedBy uint) error {
	r, ok := m.reports[id]
	if !ok {
		return errors.New("not found")
	}
	now := time.Now()
	r.Status = status
	r.ResolvedBy = &resolvedBy
	r.ResolvedAt = &now
	return nil
}

func (m *memReports) ListReports(_ context.Context, status models.ReportStatus, limit int) ([]models.Report, error) {
	var out []models.Report
	for _, r := range m.reports {
		if r.Status == status {
			out = append(out, *r)
		}
	}
	return out, nil
}

type memContent struct {
	authors    map[string]map[uint]uint // targetType -> id -> authorID
	categories map[uint]string          // threadID -> category slug
	deleted    []uint
	pinned     map[uint]bool
	locked     map[uint]bool
}

func newMemContent() *memContent {
	return &memContent{
		authors:    map[string]map[uint]uint{models.TargetThread: {}, models.TargetComment: {}},
		categories: map[uint]string{},
		pinned:     map[uint]bool{},
		locked:     map[uint]bool{},
	}
}

func (m *memContent) ContentAuthor(_ context.Context, targetType string, targetID uint) (uint, error) {
	author, ok := m.authors[targetType][targetID]
	if !ok {
		return 0, errors.New("not found")
	}
	return author, nil
}

func (m *memContent) HardDelete(_ context.Context, targetType string, targetID uint) error {
	m.deleted = append(m.deleted, targetID)
	return nil
}

func (m *memContent) ThreadCategory(_ context.Context, threadID uint) (string, error) {
	slug, ok := m.categories[threadID]
	if !ok {
		return "", errors.New("not found")
	}
	return slug, nil
}

func (m *memContent) SetThreadPinned(_ context.Context, threadID uint, pinned bool) error {
	m.pinned[threadID] = pinned
	return nil
}

func (m *memContent) SetThreadLocked(_ context.Context, threadID uint, locked bool) error {
	m.locked[threadID] = locked
	return nil
}

type memAudit struct {
	entries []models.AdminLog
}

func (m *memAudit) AppendLog(_ context.Context, entry *models.AdminLog) error {
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memAudit) RecentLogs(_ context.Context, limit int) ([]models.AdminLog, error) {
	out := make([]models.AdminLog, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

type memStewards struct {
	grants     map[string]bool // "userID:slug"
	categories map[string]*models.Category
}

func stewardKey(userID uint, slug string) string {
	return fmt.Sprintf("%d:%s", userID, slug)
}

func (m *memStewards) HasSteward(_ context.Context, userID uint, categorySlug string) (bool, error) {
	return m.grants[stewardKey(userID, categorySlug)], nil
}

func (m *memStewards) AssignSteward(_ context.Context, userID uint, categorySlug string) error {
	m.grants[stewardKey(userID, categorySlug)] = true
	return nil
}

func (m *memStewards) RemoveSteward(_ context.Context, userID uint, categorySlug string) error {
	delete(m.grants, stewardKey(userID, categorySlug))
	return nil
}

func (m *memStewards) GetCategory(_ context.Context, slug string) (*models.Category, error) {
	cat, ok := m.categories[slug]
	if !ok {
		return nil, errors.New("not found")
	}
	return cat, nil
}

type fixture struct {
	engine   *Engine
	profiles *memProfiles
	reports  *memReports
	content  *memContent
	audit    *memAudit
	stewards *memStewards
}

func newFixture() *fixture {
	profiles := &memProfiles{users: map[uint]*models.User{}}
	reports := &memReports{reports: map[uint]*models.Report{}}
	content := newMemContent()
	audit := &memAudit{}
	stewards := &memStewards{grants: map[string]bool{}, categories: map[string]*models.Category{}}
	return &fixture{
		engine:   NewEngine(profiles, reports, content, audit, stewards),
		profiles: profiles,
		reports:  reports,
		content:  content,
		audit:    audit,
		stewards: stewards,
	}
}

func (f *fixture) addUser(id uint, role models.Role) *models.User {
	u := &models.User{ID: id, Role: role, ReputationPoints: 0}
	f.profiles.users[id] = u
	return u
}

func TestReportContent_RequiresSession(t *testing.T) {
	f := newFixture()
	_, err := f.engine.ReportContent(context.Background(), nil, models.TargetThread, 1, "spam")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestReportContent_RejectsUnknownTargetType(t *testing.T) {
	f := newFixture()
	reporter := f.addUser(1, models.RoleUser)
	_, err := f.engine.ReportContent(context.Background(), reporter, "poll", 1, "spam")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestReportContent_CreatesPendingReport(t *testing.T) {
	f := newFixture()
	reporter := f.addUser(1, models.RoleUser)

	report, err := f.engine.ReportContent(context.Background(), reporter, models.TargetComment, 7, "abusive")
	assert.NoError(t, err)
	assert.Equal(t, models.ReportPending, report.Status)
	assert.Equal(t, uint(1), report.ReporterID)
}

func TestResolveReport_OneShot(t *testing.T) {
	f := newFixture()
	admin := f.addUser(1, models.RoleAdmin)
	reporter := f.addUser(2, models.RoleUser)
	report, _ := f.engine.ReportContent(context.Background(), reporter, models.TargetThread, 5, "spam")

	err := f.engine.ResolveReport(context.Background(), admin, report.ID, models.ReportResolved)
	assert.NoError(t, err)

	// A terminal report cannot transition again.
	err = f.engine.ResolveReport(context.Background(), admin, report.ID, models.ReportDismissed)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestResolveReport_InvalidOutcome(t *testing.T) {
	f := newFixture()
	admin := f.addUser(1, models.RoleAdmin)
	reporter := f.addUser(2, models.RoleUser)
	report, _ := f.engine.ReportContent(context.Background(), reporter, models.TargetThread, 5, "spam")

	err := f.engine.ResolveReport(context.Background(), admin, report.ID, models.ReportPending)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestBanUser_AdminCannotBanAdmin(t *testing.T) {
	f := newFixture()
	admin := f.addUser(1, models.RoleAdmin)
	peer := f.addUser(2, models.RoleAdmin)

	err := f.engine.BanUser(context.Background(), admin, peer.ID)
	assert.ErrorIs(t, err, ErrConflict)
	assert.False(t, peer.IsBanned)
	assert.Empty(t, f.audit.entries)
}

func TestBanUser_AdminCannotBanSuperAdmin(t *testing.T) {
	f := newFixture()
	admin := f.addUser(1, models.RoleAdmin)
	boss := f.addUser(2, models.RoleSuperAdmin)

	err := f.engine.BanUser(context.Background(), admin, boss.ID)
	assert.ErrorIs(t, err, ErrConflict)
	assert.False(t, boss.IsBanned)
}

func TestBanUser_SuperAdminBansAdmin(t *testing.T) {
	f := newFixture()
	boss := f.addUser(1, models.RoleSuperAdmin)
	admin := f.addUser(2, models.RoleAdmin)

	err := f.engine.BanUser(context.Background(), boss, admin.ID)
	assert.NoError(t, err)
	assert.True(t, admin.IsBanned)
}

func TestBanUser_SelfBanRejected(t *testing.T) {
	f := newFixture()
	boss := f.addUser(1, models.RoleSuperAdmin)

	err := f.engine.BanUser(context.Background(), boss, boss.ID)
	assert.ErrorIs(t, err, ErrConflict)
	assert.False(t, boss.IsBanned)
}

func TestBanUser_AuditRecordsTargetRole(t *testing.T) {
	f := newFixture()
	admin := f.addUser(1, models.RoleAdmin)
	target := f.addUser(2, models.RoleUser)

	err := f.engine.BanUser(context.Background(), admin, target.ID)
	assert.NoError(t, err)
	assert.True(t, target.IsBanned)

	assert.Len(t, f.audit.entries, 1)
	entry := f.audit.entries[0]
	assert.Equal(t, models.ActionBanUser, entry.Action)
	assert.Equal(t, target.ID, entry.TargetID)
	assert.Equal(t, "user", entry.Details["targetRole"])
}

func TestBanUser_NonAdminForbidden(t *testing.T) {
	f := newFixture()
	mod := f.addUser(1, models.RoleModerator)
	target := f.addUser(2, models.RoleUser)

	err := f.engine.BanUser(context.Background(), mod, target.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	err = f.engine.BanUser(context.Background(), nil, target.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUnbanUser_NoHierarchyCheck(t *testing.T) {
	f := newFixture()
	admin := f.addUser(1, models.RoleAdmin)
	peer := f.addUser(2, models.RoleAdmin)
	peer.IsBanned = true

	err := f.engine.UnbanUser(context.Background(), admin, peer.ID)
	assert.NoError(t, err)
	assert.False(t, peer.IsBanned)
}

func TestBanReportTargetAuthor_FollowsHierarchy(t *testing.T) {
	f := newFixture()
	admin := f.addUser(1, models.RoleAdmin)
	reporter := f.addUser(2, models.RoleUser)
	author := f.addUser(3, models.RoleSuperAdmin)
	f.content.authors[models.TargetComment][40] = author.ID

	report, _ := f.engine.ReportContent(context.Background(), reporter, models.TargetComment, 40, "bad take")

	err := f.engine.BanReportTargetAuthor(context.Background(), admin, report.ID)
	assert.ErrorIs(t, err, ErrConflict)
	assert.False(t, author.IsBanned)
}

func TestBanReportTargetAuthor_BansPlainAuthor(t *testing.T) {
	f := newFixture()
	admin := f.addUser(1, models.RoleAdmin)
	reporter := f.addUser(2, models.RoleUser)
	author := f.addUser(3, models.RoleUser)
	f.content.authors[models.TargetThread][41] = author.ID

	report, _ := f.engine.ReportContent(context.Background(), reporter, models.TargetThread, 41, "pump and dump")

	err := f.engine.BanReportTargetAuthor(context.Background(), admin, report.ID)
	assert.NoError(t, err)
	assert.True(t, author.IsBanned)
}

func TestAdminDeleteContent_WritesAudit(t *testing.T) {
	f := newFixture()
	admin := f.addUser(1, models.RoleAdmin)

	err := f.engine.AdminDeleteContent(context.Background(), admin, models.TargetThread, 12)
	assert.NoError(t, err)
	assert.Contains(t, f.content.deleted, uint(12))
	assert.Equal(t, models.ActionDeleteThread, f.audit.entries[0].Action)

	err = f.engine.AdminDeleteContent(context.Background(), admin, "node", 12)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestGetAdminLogs_RedactsSuperAdminEntries(t *testing.T) {
	f := newFixture()
	admin := f.addUser(1, models.RoleAdmin)
	boss := f.addUser(2, models.RoleSuperAdmin)

	f.audit.entries = []models.AdminLog{
		{AdminID: 1, Action: models.ActionBanUser, Admin: *admin},
		{AdminID: 2, Action: models.ActionBanUser, Admin: *boss},
	}

	visible, err := f.engine.GetAdminLogs(context.Background(), admin)
	assert.NoError(t, err)
	assert.Len(t, visible, 1)
	assert.Equal(t, uint(1), visible[0].AdminID)

	all, err := f.engine.GetAdminLogs(context.Background(), boss)
	assert.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetUsers_AdminOnly(t *testing.T) {
	f := newFixture()
	user := f.addUser(1, models.RoleUser)
	_, err := f.engine.GetUsers(context.Background(), user, "")
	assert.ErrorIs(t, err, ErrForbidden)

	admin := f.addUser(2, models.RoleAdmin)
	users, err := f.engine.GetUsers(context.Background(), admin, "")
	assert.NoError(t, err)
	assert.Len(t, users, 2)
}
