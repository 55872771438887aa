package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"giornobene/internal/logger"
	"giornobene/internal/model"
	"giornobene/internal/store"

	"github.com/gin-gonic/gin"
)

func userID(c *gin.Context) string { return c.GetString("user_id") }

// monthRange returns [first day of month, first day of next month).
func monthRange(year, month int) (string, string) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start.Format("2006-01-02"), start.AddDate(0, 1, 0).Format("2006-01-02")
}

func parseMonthQuery(c *gin.Context) (int, int, bool) {
	year, errY := strconv.Atoi(c.Query("year"))
	month, errM := strconv.Atoi(c.Query("month"))
	if errY != nil || errM != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year and month are required"})
		return 0, 0, false
	}
	return year, month, true
}

func writeError(c *gin.Context, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		logger.Error("request failed", "path", c.FullPath(), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
