package handlers

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"bullpen/internal/config"
	"bullpen/internal/db"
	"bullpen/internal/forum"
	"bullpen/internal/models"
	"bullpen/internal/services"
	"bullpen/internal/utils"
)

const threadsPerPage = 30

// threadListPage is the cached shape of a category's first page.
type threadListPage struct {
	Threads    []models.Thread
	Total      int64
	TotalPages int
}

type ThreadHandler struct {
	engine   *forum.Engine
	mentions *forum.MentionProcessor
}

func NewThreadHandler(engine *forum.Engine, mentions *forum.MentionProcessor) *ThreadHandler {
	return &ThreadHandler{engine: engine, mentions: mentions}
}

// ListCategories returns all categories for navigation.
func (h *ThreadHandler) ListCategories(c *gin.Context) {
	var categories []models.Category
	db.DB.Order("id ASC").Find(&categories)
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// List returns one page of a category's threads, pinned first then newest.
// Restricted categories run the lounge gate before anything is read.
func (h *ThreadHandler) List(c *gin.Context) {
	slug := c.Param("slug")

	var category models.Category
	if err := db.DB.Where("slug = ?", slug).First(&category).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	if category.IsRestricted {
		decision, err := h.engine.CanAccessLounge(c.Request.Context(), CurrentUser(c), slug)
		if err != nil {
			respondError(c, err)
			return
		}
		if !decision.Allowed {
			c.JSON(http.StatusForbidden, gin.H{"error": decision.Reason})
			return
		}
	}

	page := 1
	if p := c.Query("page"); p != "" {
		if pageNum, err := strconv.Atoi(p); err == nil && pageNum > 0 {
			page = pageNum
		}
	}
	offset := (page - 1) * threadsPerPage

	// The first page is the hot path; serve it from cache when fresh.
	// Mutations that change the list delete this key.
	cacheKey := fmt.Sprintf("threads:%s:page:1", category.Slug)
	if page == 1 {
		if cached := utils.GetCache().Get(cacheKey); cached != nil {
			if cachedPage, ok := cached.(threadListPage); ok {
				c.JSON(http.StatusOK, gin.H{
					"category":     category,
					"threads":      cachedPage.Threads,
					"current_page": 1,
					"total_pages":  cachedPage.TotalPages,
					"total":        cachedPage.Total,
				})
				return
			}
		}
	}

	var total int64
	db.DB.Model(&models.Thread{}).
		Where("category_id = ? AND deleted_at IS NULL", category.ID).
		Count(&total)
	totalPages := int(math.Ceil(float64(total) / float64(threadsPerPage)))
	if totalPages == 0 {
		totalPages = 1
	}

	var threads []models.Thread
	db.DB.Preload("Author").Preload("Category").
		Where("category_id = ? AND deleted_at IS NULL", category.ID).
		Order("is_pinned DESC, created_at DESC").
		Limit(threadsPerPage).
		Offset(offset).
		Find(&threads)

	if page == 1 {
		utils.GetCache().Set(cacheKey, threadListPage{
			Threads:    threads,
			Total:      total,
			TotalPages: totalPages,
		}, time.Minute)
	}

	c.JSON(http.StatusOK, gin.H{
		"category":     category,
		"threads":      threads,
		"current_page": page,
		"total_pages":  totalPages,
		"total":        total,
	})
}

// Get returns a thread with its comment forest and active poll, bumps the
// view counter atomically, and upserts the viewer's last-viewed timestamp.
// The response carries the previous timestamp so the client can compute
// "new since last view".
func (h *ThreadHandler) Get(c *gin.Context) {
	tid := c.Param("tid")

	var thread models.Thread
	if err := db.DB.Preload("Author").Preload("Category").Where("tid = ?", tid).First(&thread).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if thread.IsDeleted() {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	if thread.Category.IsRestricted {
		decision, err := h.engine.CanAccessLounge(c.Request.Context(), CurrentUser(c), thread.Category.Slug)
		if err != nil {
			respondError(c, err)
			return
		}
		if !decision.Allowed {
			c.JSON(http.StatusForbidden, gin.H{"error": decision.Reason})
			return
		}
	}

	db.DB.Model(&models.Thread{}).Where("id = ?", thread.ID).
		UpdateColumn("views", gorm.Expr("views + 1"))
	thread.Views++
	thread.ContentHTML = utils.RenderMarkdown(thread.Content)

	var comments []models.Comment
	db.DB.Preload("Author").
		Where("thread_id = ?", thread.ID).
		Order("created_at ASC").
		Find(&comments)
	maskDeleted(comments)
	renderMarkdown(comments)
	tree := forum.BuildCommentTree(comments)

	var poll models.Poll
	hasPoll := db.DB.Preload("Options").
		Where("thread_id = ? AND is_closed = ?", thread.ID, false).
		First(&poll).Error == nil

	var lastViewedAt *time.Time
	if user := CurrentUser(c); user != nil {
		var view models.ThreadView
		if err := db.DB.Where("user_id = ? AND thread_id = ?", user.ID, thread.ID).First(&view).Error; err == nil {
			previous := view.LastViewedAt
			lastViewedAt = &previous
			db.DB.Model(&view).Update("last_viewed_at", time.Now())
		} else {
			db.DB.Create(&models.ThreadView{UserID: user.ID, ThreadID: thread.ID, LastViewedAt: time.Now()})
		}
	}

	response := gin.H{
		"thread":         thread,
		"comments":       tree,
		"total_comments": thread.ReplyCount,
		"last_viewed_at": lastViewedAt,
	}
	if hasPoll {
		response["poll"] = poll
	}
	c.JSON(http.StatusOK, response)
}

type createThreadRequest struct {
	Title        string   `json:"title" binding:"required"`
	Content      string   `json:"content"`
	CategorySlug string   `json:"category_slug" binding:"required"`
	Tags         []string `json:"tags"`
}

func (h *ThreadHandler) Create(c *gin.Context) {
	user := MustUser(c)
	if user.IsBanned {
		c.JSON(http.StatusForbidden, gin.H{"error": forum.ReasonBanned})
		return
	}
	if user.Username == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "complete onboarding first"})
		return
	}

	var req createThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var category models.Category
	if err := db.DB.Where("slug = ?", req.CategorySlug).First(&category).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown category"})
		return
	}

	// Reputation gates: links/images, and posting into a lounge at all.
	if utils.ContainsLinkOrImage(req.Content) &&
		!forum.HasReputationFor(user, config.PostLinkOrImage) && !forum.IsGlobalAdmin(user) {
		c.JSON(http.StatusForbidden, gin.H{"error": fmt.Sprintf("posting links or images requires %d reputation", config.PostLinkOrImage)})
		return
	}
	if category.IsRestricted {
		decision, err := h.engine.CanAccessLounge(c.Request.Context(), user, category.Slug)
		if err != nil {
			respondError(c, err)
			return
		}
		if !decision.Allowed {
			c.JSON(http.StatusForbidden, gin.H{"error": decision.Reason})
			return
		}
		if !forum.HasReputationFor(user, config.CreateLoungeThread) && !forum.IsGlobalAdmin(user) {
			c.JSON(http.StatusForbidden, gin.H{"error": fmt.Sprintf("creating lounge threads requires %d reputation", config.CreateLoungeThread)})
			return
		}
	}

	thread := models.Thread{
		Tid:        utils.RandSlug(8),
		AuthorID:   user.ID,
		CategoryID: category.ID,
		Title:      req.Title,
		Content:    req.Content,
		Tags:       req.Tags,
	}
	if err := db.DB.Create(&thread).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create thread"})
		return
	}

	utils.GetCache().Delete(fmt.Sprintf("threads:%s:page:1", category.Slug))

	go func() {
		if services.CanEarnThreadRep(user.ID) {
			_ = services.AddReputation(user.ID, services.RepThreadCreate, services.ActionThreadCreate)
		}
	}()
	go h.mentions.Process(context.Background(), req.Content, thread.Tid, models.TargetThread, user.ID, thread.Tid)

	c.JSON(http.StatusCreated, thread)
}

type updateThreadRequest struct {
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	CategorySlug string   `json:"category_slug"`
	Tags         []string `json:"tags"`
}

// Update edits a thread. Authors only; moderation edits go through the
// steward/admin paths.
func (h *ThreadHandler) Update(c *gin.Context) {
	user := MustUser(c)
	tid := c.Param("tid")

	var thread models.Thread
	if err := db.DB.Preload("Category").Where("tid = ?", tid).First(&thread).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if thread.AuthorID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	var req updateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Title != "" {
		thread.Title = req.Title
	}
	if req.Content != "" {
		thread.Content = req.Content
	}
	if req.Tags != nil {
		thread.Tags = req.Tags
	}
	if req.CategorySlug != "" && req.CategorySlug != thread.Category.Slug {
		var category models.Category
		if err := db.DB.Where("slug = ?", req.CategorySlug).First(&category).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown category"})
			return
		}
		thread.CategoryID = category.ID
	}

	if err := db.DB.Save(&thread).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save thread"})
		return
	}

	utils.GetCache().Delete(fmt.Sprintf("threads:%s:page:1", thread.Category.Slug))
	if req.CategorySlug != "" && req.CategorySlug != thread.Category.Slug {
		utils.GetCache().Delete(fmt.Sprintf("threads:%s:page:1", req.CategorySlug))
	}
	c.JSON(http.StatusOK, thread)
}

type deleteThreadRequest struct {
	Reason string `json:"reason"`
}

// Delete is the author-initiated soft delete. The row stays; admin deletion
// is the hard path.
func (h *ThreadHandler) Delete(c *gin.Context) {
	user := MustUser(c)
	tid := c.Param("tid")

	var thread models.Thread
	if err := db.DB.Preload("Category").Where("tid = ?", tid).First(&thread).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if thread.AuthorID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	var req deleteThreadRequest
	_ = c.ShouldBindJSON(&req)

	now := time.Now()
	updates := map[string]interface{}{
		"deleted_at":      &now,
		"deleted_by":      user.ID,
		"deletion_reason": req.Reason,
	}
	if err := db.DB.Model(&thread).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete thread"})
		return
	}

	utils.GetCache().Delete(fmt.Sprintf("threads:%s:page:1", thread.Category.Slug))
	services.AddReputationAsync(user.ID, services.RepThreadDeleted, services.ActionThreadDeleted)

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
