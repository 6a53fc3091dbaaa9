package server

import (
	"net/http"

	"github.com/zonewatch/zonewatch/internal/models"
)

type historyJSONWrapper struct {
	History []models.HistoryEntry `json:"history"`
}

func (h *handlers) getHistory(w http.ResponseWriter, _ *http.Request) {
	entries := h.history.Load()
	if entries == nil {
		entries = []models.HistoryEntry{}
	}

	w.Header().Set("Cache-Control", "no-cache")
	respondJSON(w, http.StatusOK, historyJSONWrapper{History: entries})
}
