package handlers

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"bullpen/internal/db"
	"bullpen/internal/forum"
	"bullpen/internal/live"
	"bullpen/internal/models"
	"bullpen/internal/services"
	"bullpen/internal/utils"
)

const commentsPerPage = 20

type CommentHandler struct {
	mentions *forum.MentionProcessor
	stream   *live.Stream
}

func NewCommentHandler(mentions *forum.MentionProcessor, stream *live.Stream) *CommentHandler {
	return &CommentHandler{mentions: mentions, stream: stream}
}

// List serves one page of a thread's comments in feed form, oldest first.
// The client merges pages by id; overlap between pages is expected when
// comments land concurrently.
func (h *CommentHandler) List(c *gin.Context) {
	tid := c.Param("tid")

	var thread models.Thread
	if err := db.DB.Where("tid = ?", tid).First(&thread).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	page := 1
	if p := c.Query("page"); p != "" {
		if pageNum, err := strconv.Atoi(p); err == nil && pageNum > 0 {
			page = pageNum
		}
	}
	offset := (page - 1) * commentsPerPage

	var total int64
	db.DB.Model(&models.Comment{}).Where("thread_id = ?", thread.ID).Count(&total)

	var comments []models.Comment
	db.DB.Preload("Author").
		Where("thread_id = ?", thread.ID).
		Order("created_at ASC").
		Limit(commentsPerPage).
		Offset(offset).
		Find(&comments)
	maskDeleted(comments)
	renderMarkdown(comments)

	feed := make([]live.Comment, 0, len(comments))
	for i := range comments {
		feed = append(feed, live.FromModel(comments[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": feed,
		"page":     page,
		"total":    total,
	})
}

type createCommentRequest struct {
	Content       string `json:"content" binding:"required"`
	ParentID      *uint  `json:"parent_id"`
	CorrelationID string `json:"correlation_id"`
}

// Create inserts a comment and returns the authoritative row together with
// the client's correlation id, so the optimistic temp entry can be spliced
// out directly instead of waiting on the push channel.
func (h *CommentHandler) Create(c *gin.Context) {
	user := MustUser(c)
	tid := c.Param("tid")

	if user.IsBanned {
		c.JSON(http.StatusForbidden, gin.H{"error": forum.ReasonBanned})
		return
	}
	if user.Username == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "complete onboarding first"})
		return
	}

	var thread models.Thread
	if err := db.DB.Preload("Category").Where("tid = ?", tid).First(&thread).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if thread.IsDeleted() {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if thread.IsLocked {
		c.JSON(http.StatusConflict, gin.H{"error": "thread is locked"})
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// A parent must be another comment of the same thread. Dangling or
	// cross-thread parents are rejected at write time; the tree builder's
	// root fallback only covers rows that predate this check.
	if req.ParentID != nil {
		var parent models.Comment
		if err := db.DB.First(&parent, *req.ParentID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "parent comment does not exist"})
			return
		}
		if parent.ThreadID != thread.ID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "parent comment belongs to another thread"})
			return
		}
	}

	comment := models.Comment{
		ThreadID: thread.ID,
		AuthorID: user.ID,
		ParentID: req.ParentID,
		Content:  req.Content,
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Thread{}).
			Where("id = ?", thread.ID).
			UpdateColumn("reply_count", gorm.Expr("reply_count + 1")).
			Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create comment"})
		return
	}
	comment.Author = *user
	comment.ContentHTML = utils.RenderMarkdown(comment.Content)

	// The category list page shows reply counts.
	utils.GetCache().Delete(fmt.Sprintf("threads:%s:page:1", thread.Category.Slug))

	go func() {
		if services.CanEarnCommentRep(user.ID) {
			_ = services.AddReputation(user.ID, services.RepCommentCreate, services.ActionCommentCreate)
		}
	}()

	// Reply notifications, mention fan-out and the realtime publish are
	// best-effort; the insert above is the primary action.
	go h.notifyReply(thread, comment, user)
	go h.mentions.Process(context.Background(), req.Content, live.ServerID(comment.ID), models.TargetComment, user.ID, thread.Tid)
	go func() {
		ev := live.Event{
			ThreadID:   thread.ID,
			CommentID:  comment.ID,
			AuthorID:   user.ID,
			AuthorName: user.Name(),
			Content:    comment.Content,
			CreatedAt:  comment.CreatedAt,
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.stream.PublishComment(ctx, ev); err != nil {
			log.Printf("[live] publish failed (thread=%d comment=%d): %v", thread.ID, comment.ID, err)
		}
	}()

	c.JSON(http.StatusCreated, gin.H{
		"comment":        live.FromModel(comment),
		"correlation_id": req.CorrelationID,
	})
}

func (h *CommentHandler) notifyReply(thread models.Thread, comment models.Comment, actor *models.User) {
	if comment.ParentID != nil {
		var parent models.Comment
		if err := db.DB.First(&parent, *comment.ParentID).Error; err != nil {
			return
		}
		if parent.AuthorID == actor.ID {
			return
		}
		notification := models.Notification{
			UserID:         parent.AuthorID,
			ActorID:        &actor.ID,
			Type:           models.NotificationTypeReplyComment,
			ResourceID:     live.ServerID(comment.ID),
			ResourceSlug:   thread.Tid,
			ContentPreview: previewOf(comment.Content),
		}
		if err := db.DB.Create(&notification).Error; err != nil {
			log.Printf("[notify] reply_comment insert failed: %v", err)
		}
		return
	}
	if thread.AuthorID == actor.ID {
		return
	}
	notification := models.Notification{
		UserID:         thread.AuthorID,
		ActorID:        &actor.ID,
		Type:           models.NotificationTypeReplyThread,
		ResourceID:     live.ServerID(comment.ID),
		ResourceSlug:   thread.Tid,
		ContentPreview: previewOf(comment.Content),
	}
	if err := db.DB.Create(&notification).Error; err != nil {
		log.Printf("[notify] reply_thread insert failed: %v", err)
	}
}

// Delete is the author's soft delete.
func (h *CommentHandler) Delete(c *gin.Context) {
	user := MustUser(c)
	id := utils.StringToUint(c.Param("id"))

	var comment models.Comment
	if err := db.DB.First(&comment, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if comment.AuthorID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	if comment.IsDeleted() {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	now := time.Now()
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&comment).Updates(map[string]interface{}{
			"deleted_at": &now,
			"deleted_by": user.ID,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Thread{}).
			Where("id = ?", comment.ThreadID).
			UpdateColumn("reply_count", gorm.Expr("reply_count - 1")).
			Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete comment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Live streams comment-insert events for one thread as server-sent events.
// Each connection runs its own feed so duplicate deliveries from the push
// channel never reach the client; closing the connection unsubscribes.
func (h *CommentHandler) Live(c *gin.Context) {
	tid := c.Param("tid")

	var thread models.Thread
	if err := db.DB.Where("tid = ?", tid).First(&thread).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	viewerID := uint(0)
	if user := CurrentUser(c); user != nil {
		viewerID = user.ID
	}
	feed := live.NewThreadFeed(viewerID, time.Now())

	events := make(chan live.Comment, 16)
	ctx := c.Request.Context()
	go func() {
		defer close(events)
		err := h.stream.SubscribeComments(ctx, thread.ID, func(ev live.Event) {
			if feed.ApplyEvent(ev.Comment()) {
				select {
				case events <- ev.Comment():
				case <-ctx.Done():
				}
			}
		})
		if err != nil && ctx.Err() == nil {
			log.Printf("[live] subscription ended (thread=%d): %v", thread.ID, err)
		}
	}()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Stream(func(w io.Writer) bool {
		comment, ok := <-events
		if !ok {
			return false
		}
		comment.ContentHTML = utils.RenderMarkdown(comment.Content)
		c.SSEvent("comment", comment)
		return true
	})
}

// maskDeleted blanks the content of soft-deleted comments in place. The
// rows stay in the list so reply chains keep their structure. Runs before
// renderMarkdown so deleted bodies never reach the renderer.
func maskDeleted(comments []models.Comment) {
	for i := range comments {
		if comments[i].IsDeleted() {
			comments[i].Content = "[deleted]"
		}
	}
}

// renderMarkdown fills each comment's derived HTML for the response.
func renderMarkdown(comments []models.Comment) {
	for i := range comments {
		comments[i].ContentHTML = utils.RenderMarkdown(comments[i].Content)
	}
}

func previewOf(content string) string {
	runes := []rune(content)
	if len(runes) > 50 {
		return string(runes[:50])
	}
	return content
}
