package forum

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"bullpen/internal/models"
)

type fakeResolver struct {
	users map[string]models.User
	err   error
	calls int
}

func (r *fakeResolver) ResolveUsernames(_ context.Context, usernames []string) ([]models.User, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	out := make([]models.User, 0, len(usernames))
	for _, name := range usernames {
		if u, ok := r.users[name]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeSink struct {
	batches [][]models.Notification
	err     error
}

func (s *fakeSink) CreateNotifications(_ context.Context, notifications []models.Notification) error {
	if s.err != nil {
		return s.err
	}
	s.batches = append(s.batches, notifications)
	return nil
}

func named(id uint, name string) models.User {
	return models.User{ID: id, Username: &name}
}

func TestExtractMentions_DedupKeepsFirstOccurrence(t *testing.T) {
	got := ExtractMentions("@alice and @bob, cc @alice")
	assert.Equal(t, []string{"alice", "bob"}, got)
}

func TestExtractMentions_CaseSensitive(t *testing.T) {
	got := ExtractMentions("@Alice @alice")
	assert.Equal(t, []string{"Alice", "alice"}, got)
}

func TestExtractMentions_None(t *testing.T) {
	assert.Nil(t, ExtractMentions("no handles in this sentence at all"))
}

func TestExtractMentions_NoLeftBoundary(t *testing.T) {
	// The pattern anchors on @ alone, so the host part of an inline email
	// address is extracted like any other handle.
	assert.Equal(t, []string{"b"}, ExtractMentions("mail me at a@b"))
}

func TestProcess_NotifiesResolvedUsersOnly(t *testing.T) {
	resolver := &fakeResolver{users: map[string]models.User{
		"alice": named(1, "alice"),
		"bob":   named(2, "bob"),
	}}
	sink := &fakeSink{}
	p := NewMentionProcessor(resolver, sink)

	p.Process(context.Background(), "@alice @bob @ghost look at this", "42", "thread", 9, "a1b2c3d4")

	assert.Len(t, sink.batches, 1)
	batch := sink.batches[0]
	assert.Len(t, batch, 2)
	assert.Equal(t, uint(1), batch[0].UserID)
	assert.Equal(t, uint(2), batch[1].UserID)
	for _, n := range batch {
		assert.Equal(t, models.NotificationTypeMention, n.Type)
		assert.Equal(t, "42", n.ResourceID)
		assert.Equal(t, "a1b2c3d4", n.ResourceSlug)
		assert.Equal(t, uint(9), *n.ActorID)
	}
}

func TestProcess_ExcludesActor(t *testing.T) {
	resolver := &fakeResolver{users: map[string]models.User{
		"alice": named(1, "alice"),
	}}
	sink := &fakeSink{}
	p := NewMentionProcessor(resolver, sink)

	p.Process(context.Background(), "replying to myself @alice", "42", "comment", 1, "")

	assert.Empty(t, sink.batches)
}

func TestProcess_NoMentionsSkipsResolver(t *testing.T) {
	resolver := &fakeResolver{}
	sink := &fakeSink{}
	p := NewMentionProcessor(resolver, sink)

	p.Process(context.Background(), "plain content", "42", "thread", 1, "")

	assert.Zero(t, resolver.calls)
	assert.Empty(t, sink.batches)
}

func TestProcess_SlugFallsBackToResourceID(t *testing.T) {
	resolver := &fakeResolver{users: map[string]models.User{"bob": named(2, "bob")}}
	sink := &fakeSink{}
	p := NewMentionProcessor(resolver, sink)

	p.Process(context.Background(), "@bob", "77", "comment", 1, "")

	assert.Equal(t, "77", sink.batches[0][0].ResourceSlug)
}

func TestProcess_PreviewTruncatedTo50Chars(t *testing.T) {
	resolver := &fakeResolver{users: map[string]models.User{"bob": named(2, "bob")}}
	sink := &fakeSink{}
	p := NewMentionProcessor(resolver, sink)

	content := "@bob " + strings.Repeat("x", 200)
	p.Process(context.Background(), content, "42", "thread", 1, "")

	preview := sink.batches[0][0].ContentPreview
	assert.Len(t, []rune(preview), 50)
	assert.Equal(t, string([]rune(content)[:50]), preview)
}

func TestProcess_SwallowsFailures(t *testing.T) {
	resolver := &fakeResolver{err: errors.New("db down")}
	p := NewMentionProcessor(resolver, &fakeSink{})
	p.Process(context.Background(), "@alice", "42", "thread", 1, "")

	sink := &fakeSink{err: errors.New("insert failed")}
	p = NewMentionProcessor(&fakeResolver{users: map[string]models.User{"alice": named(1, "alice")}}, sink)
	p.Process(context.Background(), "@alice", "42", "thread", 9, "")
	assert.Empty(t, sink.batches)
}
