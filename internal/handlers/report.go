package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bullpen/internal/forum"
)

type ReportHandler struct {
	engine *forum.Engine
}

func NewReportHandler(engine *forum.Engine) *ReportHandler {
	return &ReportHandler{engine: engine}
}

type createReportRequest struct {
	TargetType string `json:"target_type" binding:"required"`
	TargetID   uint   `json:"target_id" binding:"required"`
	Reason     string `json:"reason" binding:"required"`
}

// Create files a report. Any logged-in user may report anything; triage
// happens on the admin side.
func (h *ReportHandler) Create(c *gin.Context) {
	user := MustUser(c)

	var req createReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_type, target_id and reason are required"})
		return
	}
	req.Reason = strings.TrimSpace(req.Reason)
	if req.Reason == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reason cannot be empty"})
		return
	}

	report, err := h.engine.ReportContent(c.Request.Context(), user, req.TargetType, req.TargetID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"report": report})
}
