package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bullpen/internal/forum"
	"bullpen/internal/utils"
)

type StewardHandler struct {
	engine *forum.Engine
}

func NewStewardHandler(engine *forum.Engine) *StewardHandler {
	return &StewardHandler{engine: engine}
}

type stewardGrantRequest struct {
	UserID       uint   `json:"user_id" binding:"required"`
	CategorySlug string `json:"category_slug" binding:"required"`
}

func (h *StewardHandler) Assign(c *gin.Context) {
	var req stewardGrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and category_slug are required"})
		return
	}
	if err := h.engine.AssignSteward(c.Request.Context(), CurrentUser(c), req.UserID, req.CategorySlug); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *StewardHandler) Remove(c *gin.Context) {
	var req stewardGrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and category_slug are required"})
		return
	}
	if err := h.engine.RemoveSteward(c.Request.Context(), CurrentUser(c), req.UserID, req.CategorySlug); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type pinRequest struct {
	Pinned bool `json:"pinned"`
}

func (h *StewardHandler) PinThread(c *gin.Context) {
	id := utils.StringToUint(c.Param("id"))

	var req pinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if err := h.engine.StewardPinThread(c.Request.Context(), CurrentUser(c), id, req.Pinned); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type lockRequest struct {
	Locked bool `json:"locked"`
}

func (h *StewardHandler) LockThread(c *gin.Context) {
	id := utils.StringToUint(c.Param("id"))

	var req lockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if err := h.engine.StewardLockThread(c.Request.Context(), CurrentUser(c), id, req.Locked); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// CheckLounge lets the client ask up front whether the current session may
// enter a category, instead of discovering it on the thread list.
func (h *StewardHandler) CheckLounge(c *gin.Context) {
	decision, err := h.engine.CanAccessLounge(c.Request.Context(), CurrentUser(c), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, decision)
}
