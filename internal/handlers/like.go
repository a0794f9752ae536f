package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"bullpen/internal/config"
	"bullpen/internal/db"
	"bullpen/internal/forum"
	"bullpen/internal/models"
	"bullpen/internal/services"
	"bullpen/internal/utils"
)

type LikeHandler struct{}

func NewLikeHandler() *LikeHandler {
	return &LikeHandler{}
}

// LikeThread records one like per user per thread. The counter moves with a
// single atomic increment in the same transaction as the like row, so
// concurrent likes from two sessions cannot under- or over-count.
func (h *LikeHandler) LikeThread(c *gin.Context) {
	user := MustUser(c)

	var thread models.Thread
	if err := db.DB.Where("tid = ?", c.Param("tid")).First(&thread).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.ThreadLike{UserID: user.ID, ThreadID: thread.ID}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Thread{}).
			Where("id = ?", thread.ID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).
			Error
	})
	if err != nil {
		// Unique index hit: already liked.
		c.JSON(http.StatusConflict, gin.H{"error": "already liked"})
		return
	}

	if thread.AuthorID != user.ID {
		services.AddReputationAsync(thread.AuthorID, services.RepThreadLiked, services.ActionThreadLiked)
		go h.notifyLike(thread.AuthorID, user, thread.Tid, thread.Title)
	}

	c.JSON(http.StatusOK, gin.H{"likes_count": thread.LikesCount + 1})
}

func (h *LikeHandler) UnlikeThread(c *gin.Context) {
	user := MustUser(c)

	var thread models.Thread
	if err := db.DB.Where("tid = ?", c.Param("tid")).First(&thread).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND thread_id = ? AND is_down = false", user.ID, thread.ID).
			Delete(&models.ThreadLike{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&models.Thread{}).
			Where("id = ?", thread.ID).
			UpdateColumn("likes_count", gorm.Expr("likes_count - 1")).
			Error
	})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not liked"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DownvoteThread spends one reputation point to lower a thread's score.
// Downvotes are gated on accumulated reputation and cannot be undone, which
// keeps the spend permanent and the counter math one-directional.
func (h *LikeHandler) DownvoteThread(c *gin.Context) {
	user := MustUser(c)

	if !forum.IsGlobalAdmin(user) && !forum.HasReputationFor(user, config.Downvote) {
		c.JSON(http.StatusForbidden, gin.H{"error": "downvoting requires 100+ reputation"})
		return
	}

	var thread models.Thread
	if err := db.DB.Where("tid = ?", c.Param("tid")).First(&thread).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if thread.AuthorID == user.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot downvote your own thread"})
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.ThreadLike{UserID: user.ID, ThreadID: thread.ID, IsDown: true}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Thread{}).
			Where("id = ?", thread.ID).
			UpdateColumn("likes_count", gorm.Expr("likes_count - 1")).
			Error
	})
	if err != nil {
		// Unique index spans both directions, so a prior like also blocks.
		c.JSON(http.StatusConflict, gin.H{"error": "already voted"})
		return
	}

	services.AddReputationAsync(user.ID, services.RepDownvoteSpent, services.ActionDownvoteSpent)
	c.JSON(http.StatusOK, gin.H{"likes_count": thread.LikesCount - 1})
}

func (h *LikeHandler) LikeComment(c *gin.Context) {
	user := MustUser(c)
	id := utils.StringToUint(c.Param("id"))

	var comment models.Comment
	if err := db.DB.Preload("Thread").First(&comment, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.CommentLike{UserID: user.ID, CommentID: id}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Comment{}).
			Where("id = ?", id).
			UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).
			Error
	})
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "already liked"})
		return
	}

	if comment.AuthorID != user.ID {
		services.AddReputationAsync(comment.AuthorID, services.RepCommentLiked, services.ActionCommentLiked)
		go h.notifyLike(comment.AuthorID, user, comment.Thread.Tid, comment.Content)
	}

	c.JSON(http.StatusOK, gin.H{"likes_count": comment.LikesCount + 1})
}

func (h *LikeHandler) UnlikeComment(c *gin.Context) {
	user := MustUser(c)
	id := utils.StringToUint(c.Param("id"))

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND comment_id = ? AND is_down = false", user.ID, id).
			Delete(&models.CommentLike{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&models.Comment{}).
			Where("id = ?", id).
			UpdateColumn("likes_count", gorm.Expr("likes_count - 1")).
			Error
	})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not liked"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *LikeHandler) DownvoteComment(c *gin.Context) {
	user := MustUser(c)

	if !forum.IsGlobalAdmin(user) && !forum.HasReputationFor(user, config.Downvote) {
		c.JSON(http.StatusForbidden, gin.H{"error": "downvoting requires 100+ reputation"})
		return
	}

	id := utils.StringToUint(c.Param("id"))
	var comment models.Comment
	if err := db.DB.First(&comment, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if comment.AuthorID == user.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot downvote your own comment"})
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.CommentLike{UserID: user.ID, CommentID: id, IsDown: true}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Comment{}).
			Where("id = ?", id).
			UpdateColumn("likes_count", gorm.Expr("likes_count - 1")).
			Error
	})
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "already voted"})
		return
	}

	services.AddReputationAsync(user.ID, services.RepDownvoteSpent, services.ActionDownvoteSpent)
	c.JSON(http.StatusOK, gin.H{"likes_count": comment.LikesCount - 1})
}

func (h *LikeHandler) notifyLike(recipientID uint, actor *models.User, threadTid, preview string) {
	notification := models.Notification{
		UserID:         recipientID,
		ActorID:        &actor.ID,
		Type:           models.NotificationTypeLike,
		ResourceID:     threadTid,
		ResourceSlug:   threadTid,
		ContentPreview: previewOf(preview),
	}
	if err := db.DB.Create(&notification).Error; err != nil {
		log.Printf("[notify] like insert failed: %v", err)
	}
}
