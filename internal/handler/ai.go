package handler

import (
	"net/http"
	"sync"

	"giornobene/internal/logger"
	"giornobene/internal/service"

	"github.com/gin-gonic/gin"
)

// AIHandler serves the LLM-backed endpoints. The fun fact is cached and
// invalidated through the explicit mutation notifier rather than any
// shared refresh state.
type AIHandler struct {
	insights *service.InsightService
	logs     *service.LogService

	mu      sync.Mutex
	funFact string
}

func NewAIHandler(insights *service.InsightService, logs *service.LogService) *AIHandler {
	return &AIHandler{insights: insights, logs: logs}
}

// Invalidate is wired as the LogService notifier: any journal mutation
// drops the cached fun fact so the next fetch regenerates it.
func (h *AIHandler) Invalidate(userID, date string) {
	h.mu.Lock()
	h.funFact = ""
	h.mu.Unlock()
}

// Insights handles GET /api/insights — narrative food/symptom insights
// over the whole journal.
func (h *AIHandler) Insights(c *gin.Context) {
	logs, err := h.logs.ListLogs(c.Request.Context(), userID(c), "0001-01-01", "9999-12-31")
	if err != nil {
		writeError(c, err)
		return
	}
	result, err := h.insights.FoodInsights(c.Request.Context(), logs)
	if err != nil {
		logger.Error("insights generation failed", "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "insights temporarily unavailable"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// FunFact handles GET /api/fun-fact
func (h *AIHandler) FunFact(c *gin.Context) {
	h.mu.Lock()
	cached := h.funFact
	h.mu.Unlock()
	if cached != "" {
		c.JSON(http.StatusOK, gin.H{"funFact": cached})
		return
	}

	fact, err := h.insights.FunFact(c.Request.Context())
	if err != nil {
		logger.Error("fun fact generation failed", "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "fun fact temporarily unavailable"})
		return
	}
	h.mu.Lock()
	h.funFact = fact
	h.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"funFact": fact})
}
