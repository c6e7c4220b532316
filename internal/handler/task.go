package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mlynch/tidyduel/internal/calendar"
	"github.com/mlynch/tidyduel/internal/challenge"
	"github.com/mlynch/tidyduel/internal/edit"
	"github.com/mlynch/tidyduel/internal/model"
)

type TaskHandler struct {
	manager *challenge.Manager
	logger  *slog.Logger
}

func NewTaskHandler(m *challenge.Manager, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{manager: m, logger: logger}
}

// parseScope reads the edit scope from the query string. Absent means
// today, the narrow default.
func parseScope(r *http.Request) (edit.Scope, error) {
	switch s := r.URL.Query().Get("scope"); s {
	case "", "today":
		return edit.ScopeToday, nil
	case "future":
		return edit.ScopeFuture, nil
	default:
		return "", fmt.Errorf("unknown scope %q", s)
	}
}

// List returns the current week's tasks, optionally narrowed to one
// day with ?day=YYYY-MM-DD.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.manager.Tasks()
	if err != nil {
		h.logger.Error("list tasks", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list tasks"})
		return
	}

	if dayParam := r.URL.Query().Get("day"); dayParam != "" {
		day, err := calendar.ParseDayKey(dayParam)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "day must be YYYY-MM-DD"})
			return
		}
		filtered := make([]model.TaskInstance, 0, len(tasks))
		for _, task := range tasks {
			if task.DayKey == day {
				filtered = append(filtered, task)
			}
		}
		tasks = filtered
	}

	if tasks == nil {
		tasks = []model.TaskInstance{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   string `json:"name"`
		DayKey string `json:"day_key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	day, err := calendar.ParseDayKey(req.DayKey)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "day_key must be YYYY-MM-DD"})
		return
	}

	task, err := h.manager.CreateOneOff(day, req.Name)
	if err != nil {
		h.logger.Error("create task", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create task"})
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	scope, err := parseScope(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	if err := h.manager.RenameTask(id, req.Name, scope); err != nil {
		h.logger.Error("rename task", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to rename task"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	scope, err := parseScope(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := h.manager.DeleteTask(id, scope); err != nil {
		h.logger.Error("delete task", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete task"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) SetPoints(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req struct {
		CompetitorID string `json:"competitor_id"`
		Points       int    `json:"points"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.CompetitorID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "competitor_id is required"})
		return
	}
	if req.Points < 0 || req.Points > challenge.MaxTaskPoints {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("points must be 0-%d", challenge.MaxTaskPoints)})
		return
	}

	if err := h.manager.SetTaskPoints(id, req.CompetitorID, req.Points); err != nil {
		h.logger.Error("set task points", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to set points"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
