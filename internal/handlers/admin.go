package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bullpen/internal/forum"
	"bullpen/internal/models"
	"bullpen/internal/utils"
)

// AdminHandler is a thin HTTP skin over the moderation engine: it parses
// the request, passes the session user through as the actor, and maps
// engine errors to status codes. All authorization lives in the engine.
type AdminHandler struct {
	engine *forum.Engine
}

func NewAdminHandler(engine *forum.Engine) *AdminHandler {
	return &AdminHandler{engine: engine}
}

func (h *AdminHandler) ListReports(c *gin.Context) {
	status := models.ReportStatus(c.DefaultQuery("status", string(models.ReportPending)))
	reports, err := h.engine.ListReports(c.Request.Context(), CurrentUser(c), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

type resolveReportRequest struct {
	Outcome string `json:"outcome" binding:"required"`
}

func (h *AdminHandler) ResolveReport(c *gin.Context) {
	id := utils.StringToUint(c.Param("id"))

	var req resolveReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "outcome is required"})
		return
	}

	err := h.engine.ResolveReport(c.Request.Context(), CurrentUser(c), id, models.ReportStatus(req.Outcome))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AdminHandler) BanUser(c *gin.Context) {
	id := utils.StringToUint(c.Param("id"))
	if err := h.engine.BanUser(c.Request.Context(), CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AdminHandler) UnbanUser(c *gin.Context) {
	id := utils.StringToUint(c.Param("id"))
	if err := h.engine.UnbanUser(c.Request.Context(), CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// BanReportAuthor bans whoever authored the content named by a report.
func (h *AdminHandler) BanReportAuthor(c *gin.Context) {
	id := utils.StringToUint(c.Param("id"))
	if err := h.engine.BanReportTargetAuthor(c.Request.Context(), CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AdminHandler) DeleteContent(c *gin.Context) {
	targetType := c.Param("type")
	id := utils.StringToUint(c.Param("id"))
	if err := h.engine.AdminDeleteContent(c.Request.Context(), CurrentUser(c), targetType, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AdminHandler) GetUsers(c *gin.Context) {
	users, err := h.engine.GetUsers(c.Request.Context(), CurrentUser(c), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *AdminHandler) GetAdminLogs(c *gin.Context) {
	logs, err := h.engine.GetAdminLogs(c.Request.Context(), CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}
