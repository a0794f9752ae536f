package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bullpen/internal/config"
	"bullpen/internal/db"
	"bullpen/internal/forum"
	"bullpen/internal/models"
	"bullpen/internal/utils"
)

type PollHandler struct{}

func NewPollHandler() *PollHandler {
	return &PollHandler{}
}

type createPollRequest struct {
	Question      string   `json:"question" binding:"required"`
	Options       []string `json:"options" binding:"required"`
	AllowMultiple bool     `json:"allow_multiple"`
}

// Create attaches a poll to a thread. Only the thread author may do it, the
// author needs enough reputation, and a thread carries at most one open poll.
func (h *PollHandler) Create(c *gin.Context) {
	user := MustUser(c)
	tid := c.Param("tid")

	var req createPollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question and options are required"})
		return
	}

	options := make([]string, 0, len(req.Options))
	for _, label := range req.Options {
		if label = strings.TrimSpace(label); label != "" {
			options = append(options, label)
		}
	}
	if len(options) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a poll needs at least two options"})
		return
	}

	var thread models.Thread
	if err := db.DB.Where("tid = ?", tid).First(&thread).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if thread.AuthorID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the thread author can attach a poll"})
		return
	}
	if !forum.IsGlobalAdmin(user) && !forum.HasReputationFor(user, config.CreatePoll) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not enough reputation to create a poll"})
		return
	}

	var open int64
	db.DB.Model(&models.Poll{}).Where("thread_id = ? AND is_closed = false", thread.ID).Count(&open)
	if open > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "thread already has an open poll"})
		return
	}

	poll := models.Poll{
		ThreadID:      thread.ID,
		Question:      strings.TrimSpace(req.Question),
		AllowMultiple: req.AllowMultiple,
	}
	for _, label := range options {
		poll.Options = append(poll.Options, models.PollOption{Label: label})
	}
	if err := db.DB.Create(&poll).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create poll"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"poll": poll})
}

type voteRequest struct {
	OptionID uint `json:"option_id" binding:"required"`
}

func (h *PollHandler) Vote(c *gin.Context) {
	user := MustUser(c)
	pollID := utils.StringToUint(c.Param("id"))

	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "option_id is required"})
		return
	}

	var poll models.Poll
	if err := db.DB.Preload("Options").First(&poll, pollID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if poll.IsClosed {
		c.JSON(http.StatusConflict, gin.H{"error": "poll is closed"})
		return
	}

	valid := false
	for _, opt := range poll.Options {
		if opt.ID == req.OptionID {
			valid = true
			break
		}
	}
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "option does not belong to this poll"})
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if !poll.AllowMultiple {
			// Take a row lock on the poll so two concurrent votes for
			// different options cannot both pass the count below. The
			// unique index spans (poll, option, user) and would admit
			// them otherwise.
			var locked models.Poll
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&locked, poll.ID).Error; err != nil {
				return err
			}
			var existing int64
			if err := tx.Model(&models.PollVote{}).
				Where("poll_id = ? AND user_id = ?", poll.ID, user.ID).
				Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				return gorm.ErrDuplicatedKey
			}
		}
		vote := models.PollVote{PollID: poll.ID, OptionID: req.OptionID, UserID: user.ID}
		if err := tx.Create(&vote).Error; err != nil {
			return err
		}
		return tx.Model(&models.PollOption{}).
			Where("id = ?", req.OptionID).
			UpdateColumn("votes", gorm.Expr("votes + 1")).
			Error
	})
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "already voted"})
		return
	}

	var options []models.PollOption
	db.DB.Where("poll_id = ?", poll.ID).Order("id").Find(&options)
	c.JSON(http.StatusOK, gin.H{"options": options})
}

// Close ends voting. The thread author or a global admin may close a poll.
func (h *PollHandler) Close(c *gin.Context) {
	user := MustUser(c)
	pollID := utils.StringToUint(c.Param("id"))

	var poll models.Poll
	if err := db.DB.Preload("Thread").First(&poll, pollID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if poll.Thread.AuthorID != user.ID && !forum.IsGlobalAdmin(user) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed"})
		return
	}
	if poll.IsClosed {
		c.JSON(http.StatusConflict, gin.H{"error": "poll already closed"})
		return
	}
	if err := db.DB.Model(&poll).UpdateColumn("is_closed", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not close poll"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
