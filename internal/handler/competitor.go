package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mlynch/tidyduel/internal/model"
	"github.com/mlynch/tidyduel/internal/store"
	"github.com/mlynch/tidyduel/internal/websocket"
)

type CompetitorHandler struct {
	competitors *store.CompetitorStore
	hub         *websocket.Hub
	logger      *slog.Logger
}

func NewCompetitorHandler(cs *store.CompetitorStore, hub *websocket.Hub, logger *slog.Logger) *CompetitorHandler {
	return &CompetitorHandler{competitors: cs, hub: hub, logger: logger}
}

func (h *CompetitorHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type competitorRequest struct {
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

func (h *CompetitorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req competitorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	competitor, err := h.competitors.Create(req.Name, req.SortOrder)
	if err != nil {
		h.logger.Error("create competitor", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create competitor"})
		return
	}

	h.broadcast(websocket.NewMessage("competitor", "created", competitor.ID, nil))

	writeJSON(w, http.StatusCreated, competitor)
}

func (h *CompetitorHandler) List(w http.ResponseWriter, r *http.Request) {
	competitors, err := h.competitors.List()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list competitors"})
		return
	}
	if competitors == nil {
		competitors = []model.Competitor{}
	}
	writeJSON(w, http.StatusOK, competitors)
}

func (h *CompetitorHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	existing, err := h.competitors.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get competitor"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "competitor not found"})
		return
	}

	var req competitorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	competitor, err := h.competitors.Update(id, req.Name, req.SortOrder)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update competitor"})
		return
	}

	h.broadcast(websocket.NewMessage("competitor", "updated", id, nil))

	writeJSON(w, http.StatusOK, competitor)
}

func (h *CompetitorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	existing, err := h.competitors.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get competitor"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "competitor not found"})
		return
	}

	if err := h.competitors.Delete(id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete competitor"})
		return
	}

	h.broadcast(websocket.NewMessage("competitor", "deleted", id, nil))

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
