package forum

import (
	"context"
	"log"
	"regexp"

	"bullpen/internal/models"
)

var mentionRe = regexp.MustCompile(`@(\w+)`)

const previewLimit = 50

// UserResolver maps candidate usernames to known users. Unknown names are
// simply absent from the result.
type UserResolver interface {
	ResolveUsernames(ctx context.Context, usernames []string) ([]models.User, error)
}

// NotificationSink persists a batch of notifications in one call.
type NotificationSink interface {
	CreateNotifications(ctx context.Context, notifications []models.Notification) error
}

// MentionProcessor extracts @-mentions from free text and fans them out as
// mention notifications. Delivery is best-effort: it must never block or
// fail the action (posting a thread or comment) that carried the mention.
type MentionProcessor struct {
	users UserResolver
	sink  NotificationSink
}

func NewMentionProcessor(users UserResolver, sink NotificationSink) *MentionProcessor {
	return &MentionProcessor{users: users, sink: sink}
}

// Process scans content for @username tokens and notifies every resolved
// user except the actor. resourceSlug is the thread the notification should
// deep-link to; when empty it falls back to resourceID. Errors are logged
// and swallowed.
func (p *MentionProcessor) Process(ctx context.Context, content, resourceID, resourceType string, actorID uint, resourceSlug string) {
	candidates := ExtractMentions(content)
	if len(candidates) == 0 {
		return
	}

	users, err := p.users.ResolveUsernames(ctx, candidates)
	if err != nil {
		log.Printf("[mention] resolve failed (resource=%s): %v", resourceID, err)
		return
	}

	slug := resourceSlug
	if slug == "" {
		slug = resourceID
	}

	notifications := make([]models.Notification, 0, len(users))
	for i := range users {
		if users[i].ID == actorID {
			continue // no self-notification
		}
		actor := actorID
		notifications = append(notifications, models.Notification{
			UserID:         users[i].ID,
			ActorID:        &actor,
			Type:           models.NotificationTypeMention,
			ResourceID:     resourceID,
			ResourceSlug:   slug,
			ContentPreview: truncatePreview(content),
			IsRead:         false,
		})
	}
	if len(notifications) == 0 {
		return
	}

	if err := p.sink.CreateNotifications(ctx, notifications); err != nil {
		log.Printf("[mention] insert failed (resource=%s, count=%d): %v", resourceID, len(notifications), err)
	}
}

// ExtractMentions returns the distinct @-mention tokens in order of first
// appearance. Matching is case-sensitive; no normalization is applied.
func ExtractMentions(content string) []string {
	matches := mentionRe.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		out = append(out, m[1])
	}
	return out
}

// truncatePreview hard-cuts content to the first 50 characters, with no
// word-boundary awareness.
func truncatePreview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLimit {
		return content
	}
	return string(runes[:previewLimit])
}
