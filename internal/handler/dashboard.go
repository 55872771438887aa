package handler

import (
	"net/http"

	"giornobene/internal/correlation"
	"giornobene/internal/model"
	"giornobene/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	svc *service.LogService
}

func NewDashboardHandler(svc *service.LogService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Wellbeing handles GET /api/dashboard/wellbeing?year=&month= — the
// per-rating allergen frequencies over the trailing (day + previous
// day) window.
func (h *DashboardHandler) Wellbeing(c *gin.Context) {
	logs, ok := h.monthLogs(c)
	if !ok {
		return
	}
	stats := correlation.AggregateByRating(logs, model.RatingDomain(), correlation.TrailingWindow)
	c.JSON(http.StatusOK, stats)
}

// RedDays handles GET /api/dashboard/red-days?year=&month= — the top-5
// ingredient/allergen report for worst-rated days over a 48-hour
// pre-event window.
func (h *DashboardHandler) RedDays(c *gin.Context) {
	logs, ok := h.monthLogs(c)
	if !ok {
		return
	}
	report := correlation.CorrelateRedDays(logs, correlation.PreEventWindow)
	c.JSON(http.StatusOK, report)
}

func (h *DashboardHandler) monthLogs(c *gin.Context) ([]model.DayLog, bool) {
	year, month, ok := parseMonthQuery(c)
	if !ok {
		return nil, false
	}
	from, to := monthRange(year, month)
	logs, err := h.svc.ListLogs(c.Request.Context(), userID(c), from, to)
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return logs, true
}
