package handler

import (
	"net/http"

	"giornobene/internal/logger"
	"giornobene/internal/model"
	"giornobene/internal/store"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	settings store.SettingsStore
}

func NewSettingsHandler(settings store.SettingsStore) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// GetWatchlist handles GET /api/settings/watchlist
func (h *SettingsHandler) GetWatchlist(c *gin.Context) {
	list, err := h.settings.GetWatchlist(c.Request.Context(), userID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if list == nil {
		list = []string{}
	}
	c.JSON(http.StatusOK, model.WatchlistRequest{AllergenWatchlist: list})
}

// SetWatchlist handles PUT /api/settings/watchlist. Entries are free
// text; there is no canonical allergen vocabulary to validate against.
func (h *SettingsHandler) SetWatchlist(c *gin.Context) {
	var req model.WatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.settings.SetWatchlist(c.Request.Context(), userID(c), req.AllergenWatchlist); err != nil {
		writeError(c, err)
		return
	}
	logger.Info("watchlist updated", "user", userID(c), "entries", len(req.AllergenWatchlist))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
