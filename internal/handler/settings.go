package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/mlynch/tidyduel/internal/store"
	"github.com/mlynch/tidyduel/internal/websocket"
)

type SettingsHandler struct {
	settings *store.SettingsStore
	hub      *websocket.Hub
	logger   *slog.Logger
}

func NewSettingsHandler(ss *store.SettingsStore, hub *websocket.Hub, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{settings: ss, hub: hub, logger: logger}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.GetAll()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load settings"})
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// Update changes the household timezone and week start day. Changing
// either only affects how future windows are computed; existing task
// instances keep their day keys.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Timezone     *string `json:"timezone"`
		WeekStartDay *int    `json:"week_start_day"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown timezone"})
			return
		}
		if err := h.settings.Set(store.KeyTimezone, *req.Timezone); err != nil {
			h.logger.Error("set timezone", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update settings"})
			return
		}
	}

	if req.WeekStartDay != nil {
		if *req.WeekStartDay < 0 || *req.WeekStartDay > 6 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "week_start_day must be 0-6"})
			return
		}
		if err := h.settings.Set(store.KeyWeekStartDay, strconv.Itoa(*req.WeekStartDay)); err != nil {
			h.logger.Error("set week start day", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update settings"})
			return
		}
	}

	if h.hub != nil {
		h.hub.Broadcast(websocket.NewMessage("settings", "updated", "", nil))
	}

	settings, err := h.settings.GetAll()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load settings"})
		return
	}
	writeJSON(w, http.StatusOK, settings)
}
