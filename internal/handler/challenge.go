package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mlynch/tidyduel/internal/challenge"
	"github.com/mlynch/tidyduel/internal/model"
	"github.com/mlynch/tidyduel/internal/store"
)

type ChallengeHandler struct {
	manager    *challenge.Manager
	challenges *store.ChallengeStore
	logger     *slog.Logger
}

func NewChallengeHandler(m *challenge.Manager, cs *store.ChallengeStore, logger *slog.Logger) *ChallengeHandler {
	return &ChallengeHandler{manager: m, challenges: cs, logger: logger}
}

// challengeView pairs a challenge with its per-competitor totals so the
// client never sums points itself.
type challengeView struct {
	Challenge *model.Challenge `json:"challenge"`
	Totals    map[string]int   `json:"totals"`
}

func (h *ChallengeHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	ch, err := h.manager.Current()
	if err != nil {
		h.logger.Error("current challenge", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load challenge"})
		return
	}
	totals, err := h.manager.TotalsFor(ch)
	if err != nil {
		h.logger.Error("challenge totals", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load totals"})
		return
	}
	writeJSON(w, http.StatusOK, challengeView{Challenge: ch, Totals: totals})
}

func (h *ChallengeHandler) History(w http.ResponseWriter, r *http.Request) {
	completed, err := h.challenges.ListCompleted()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list history"})
		return
	}

	views := make([]challengeView, 0, len(completed))
	for i := range completed {
		ch := completed[i]
		totals, err := h.manager.TotalsFor(&ch)
		if err != nil {
			h.logger.Error("history totals", "challenge_id", ch.ID, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load totals"})
			return
		}
		views = append(views, challengeView{Challenge: &completed[i], Totals: totals})
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *ChallengeHandler) UpdatePrize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prize string `json:"prize"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if err := h.manager.UpdatePrize(req.Prize); err != nil {
		h.logger.Error("update prize", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update prize"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
