package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bullpen/internal/db"
	"bullpen/internal/forum"
	"bullpen/internal/models"
	"bullpen/internal/services"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Profile is the public view of a user: activity counts, reputation and
// earned badges, no email or ban plumbing.
func (h *UserHandler) Profile(c *gin.Context) {
	username := c.Param("username")

	var user models.User
	if err := db.DB.Where("username = ?", username).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	var threadCount, commentCount int64
	db.DB.Model(&models.Thread{}).Where("author_id = ? AND deleted_at IS NULL", user.ID).Count(&threadCount)
	db.DB.Model(&models.Comment{}).Where("author_id = ? AND deleted_at IS NULL", user.ID).Count(&commentCount)

	var recent []models.Thread
	db.DB.Where("author_id = ? AND deleted_at IS NULL", user.ID).
		Order("created_at DESC").
		Limit(10).
		Find(&recent)

	c.JSON(http.StatusOK, gin.H{
		"username":          user.Name(),
		"role":              user.Role,
		"reputation_points": user.ReputationPoints,
		"is_banned":         user.IsBanned,
		"joined_at":         user.CreatedAt,
		"thread_count":      threadCount,
		"comment_count":     commentCount,
		"badges":            services.ComputeBadges(&user, commentCount),
		"recent_threads":    recent,
	})
}

// StudioAccess answers whether the session may enter the events studio.
func (h *UserHandler) StudioAccess(c *gin.Context) {
	user := MustUser(c)
	c.JSON(http.StatusOK, gin.H{"allowed": forum.CanAccessStudio(user)})
}
