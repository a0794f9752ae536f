package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bullpen/internal/services"
	"bullpen/internal/utils"
)

const defaultHeadlineLimit = 10

type MarketHandler struct {
	news *services.MarketNews
}

func NewMarketHandler() *MarketHandler {
	return &MarketHandler{news: services.GetMarketNews()}
}

// Headlines serves the dashboard news strip. Feed fetching and the cache
// window live in the service; failures here mean every configured feed was
// unreachable.
func (h *MarketHandler) Headlines(c *gin.Context) {
	limit := utils.StringToInt(c.DefaultQuery("limit", ""))
	if limit <= 0 || limit > 50 {
		limit = defaultHeadlineLimit
	}

	headlines, err := h.news.Headlines(limit)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "market feeds unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"headlines": headlines})
}
