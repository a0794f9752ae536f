package handlers

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"bullpen/internal/live"
	"bullpen/internal/models"
)

func feedComment(id uint, content string, deletedAt *time.Time) models.Comment {
	name := "alice"
	return models.Comment{
		ID:        id,
		Content:   content,
		Author:    models.User{ID: 1, Username: &name},
		DeletedAt: deletedAt,
	}
}

func TestRenderMarkdown_SanitizedHTMLReachesFeed(t *testing.T) {
	comments := []models.Comment{
		feedComment(1, "**bold** take <script>alert(1)</script>", nil),
	}
	renderMarkdown(comments)

	entry := live.FromModel(comments[0])
	html := string(entry.ContentHTML)
	assert.Contains(t, html, "<strong>bold</strong>")
	assert.NotContains(t, html, "<script>")
	assert.Equal(t, "**bold** take <script>alert(1)</script>", entry.Content)
}

func TestRenderMarkdown_DeletedCommentsRenderMaskOnly(t *testing.T) {
	now := time.Now()
	comments := []models.Comment{
		feedComment(1, "[secret](https://example.com)", &now),
		feedComment(2, "still here", nil),
	}
	maskDeleted(comments)
	renderMarkdown(comments)

	assert.NotContains(t, string(comments[0].ContentHTML), "example.com")
	assert.Contains(t, string(comments[0].ContentHTML), "[deleted]")
	assert.True(t, strings.Contains(string(comments[1].ContentHTML), "still here"))
}
