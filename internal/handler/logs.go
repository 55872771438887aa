package handler

import (
	"net/http"
	"time"

	"giornobene/internal/logger"
	"giornobene/internal/model"
	"giornobene/internal/service"

	"github.com/gin-gonic/gin"
)

type LogHandler struct {
	svc *service.LogService
}

func NewLogHandler(svc *service.LogService) *LogHandler { return &LogHandler{svc: svc} }

// List handles GET /api/logs?year=&month=
func (h *LogHandler) List(c *gin.Context) {
	year, month, ok := parseMonthQuery(c)
	if !ok {
		return
	}
	from, to := monthRange(year, month)
	logs, err := h.svc.ListLogs(c.Request.Context(), userID(c), from, to)
	if err != nil {
		writeError(c, err)
		return
	}
	if logs == nil {
		logs = []model.DayLog{}
	}
	c.JSON(http.StatusOK, logs)
}

// Get handles GET /api/logs/:date — reads never create a document.
func (h *LogHandler) Get(c *gin.Context) {
	date := c.Param("date")
	if err := model.ValidateDate(date); err != nil {
		writeError(c, err)
		return
	}
	log, err := h.svc.GetLog(c.Request.Context(), userID(c), date)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, log)
}

// UpsertRating handles PUT /api/logs/:date/rating
func (h *LogHandler) UpsertRating(c *gin.Context) {
	date := c.Param("date")
	var req model.RateDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	for _, check := range []error{
		model.ValidateDate(date),
		model.ValidateRating(req.Rating),
		model.ValidateSymptoms(req.Symptoms),
	} {
		if check != nil {
			writeError(c, check)
			return
		}
	}

	log, err := h.svc.UpsertRating(c.Request.Context(), userID(c), date, req.Rating, req.Symptoms)
	if err != nil {
		writeError(c, err)
		return
	}
	logger.Info("rating upserted", "user", userID(c), "date", date, "rating", req.Rating)
	c.JSON(http.StatusOK, log)
}

// AddMeal handles POST /api/logs/:date/meals. The meal is saved even
// when analysis fails; the response then carries a warning.
func (h *LogHandler) AddMeal(c *gin.Context) {
	date := c.Param("date")
	var req model.AddMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := model.ValidateDate(date); err != nil {
		writeError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(c, err)
		return
	}

	meal := model.Meal{
		Type:        req.Type,
		Time:        req.Time,
		Description: req.Description,
		CreatedAt:   time.Now(),
	}
	log, warning, err := h.svc.AddMeal(c.Request.Context(), userID(c), date, meal)
	if err != nil {
		writeError(c, err)
		return
	}
	logger.Info("meal added", "user", userID(c), "date", date, "type", req.Type, "analyzed", warning == "")
	c.JSON(http.StatusOK, model.MealResponse{Log: log, Warning: warning})
}

// UpdateMeal handles PUT /api/logs/:date/meals — a manual analysis
// correction; the analyzer is not re-run.
func (h *LogHandler) UpdateMeal(c *gin.Context) {
	date := c.Param("date")
	var req model.UpdateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := model.ValidateDate(date); err != nil {
		writeError(c, err)
		return
	}
	req.Analysis.Normalize()
	key := model.MealKey{Time: req.Time, Description: req.Description}
	if err := h.svc.CorrectMealAnalysis(c.Request.Context(), userID(c), date, key, req.Analysis); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// RemoveMeal handles DELETE /api/logs/:date/meals
func (h *LogHandler) RemoveMeal(c *gin.Context) {
	date := c.Param("date")
	var req model.RemoveMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := model.ValidateDate(date); err != nil {
		writeError(c, err)
		return
	}
	key := model.MealKey{Time: req.Time, Description: req.Description}
	if err := h.svc.RemoveMeal(c.Request.Context(), userID(c), date, key); err != nil {
		writeError(c, err)
		return
	}
	logger.Info("meal removed", "user", userID(c), "date", date)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
