package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mlynch/tidyduel/internal/challenge"
	"github.com/mlynch/tidyduel/internal/model"
	"github.com/mlynch/tidyduel/internal/store"
)

type TemplateHandler struct {
	manager   *challenge.Manager
	templates *store.TemplateStore
	logger    *slog.Logger
}

func NewTemplateHandler(m *challenge.Manager, ts *store.TemplateStore, logger *slog.Logger) *TemplateHandler {
	return &TemplateHandler{manager: m, templates: ts, logger: logger}
}

type templateRequest struct {
	Name       string `json:"name"`
	RepeatDays []int  `json:"repeat_days"`
}

func validRepeatDays(days []int) bool {
	for _, d := range days {
		if d < 0 || d > 6 {
			return false
		}
	}
	return true
}

func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if !validRepeatDays(req.RepeatDays) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "repeat_days must be weekdays 0-6"})
		return
	}

	tmpl, err := h.manager.CreateTemplate(req.Name, req.RepeatDays)
	if err != nil {
		h.logger.Error("create template", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create template"})
		return
	}

	writeJSON(w, http.StatusCreated, tmpl)
}

func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	templates, err := h.templates.List()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list templates"})
		return
	}
	if templates == nil {
		templates = []model.RecurringTemplate{}
	}
	writeJSON(w, http.StatusOK, templates)
}

func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	existing, err := h.templates.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get template"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "template not found"})
		return
	}

	var req templateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if !validRepeatDays(req.RepeatDays) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "repeat_days must be weekdays 0-6"})
		return
	}

	if err := h.manager.UpdateTemplate(id, req.Name, req.RepeatDays); err != nil {
		h.logger.Error("update template", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update template"})
		return
	}

	updated, err := h.templates.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get template"})
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	existing, err := h.templates.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get template"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "template not found"})
		return
	}

	if err := h.manager.DeleteTemplate(id); err != nil {
		h.logger.Error("delete template", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete template"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
