package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/mlynch/tidyduel/internal/challenge"
	"github.com/mlynch/tidyduel/internal/handler"
	"github.com/mlynch/tidyduel/internal/middleware"
	"github.com/mlynch/tidyduel/internal/store"
	ws "github.com/mlynch/tidyduel/internal/websocket"
)

type Server struct {
	db          *sql.DB
	hub         *ws.Hub
	manager     *challenge.Manager
	competitorH *handler.CompetitorHandler
	templateH   *handler.TemplateHandler
	taskH       *handler.TaskHandler
	challengeH  *handler.ChallengeHandler
	settingsH   *handler.SettingsHandler
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

func New(db *sql.DB, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	settingsStore := store.NewSettingsStore(db)
	competitorStore := store.NewCompetitorStore(db)
	templateStore := store.NewTemplateStore(db)
	taskStore := store.NewTaskStore(db)
	skipStore := store.NewSkipStore(db)
	challengeStore := store.NewChallengeStore(db)

	manager := challenge.NewManager(
		settingsStore,
		competitorStore,
		templateStore,
		taskStore,
		skipStore,
		challengeStore,
		hub,
		logger.With("component", "challenge"),
	)

	return &Server{
		db:          db,
		hub:         hub,
		manager:     manager,
		competitorH: handler.NewCompetitorHandler(competitorStore, hub, logger.With("component", "competitor")),
		templateH:   handler.NewTemplateHandler(manager, templateStore, logger.With("component", "template")),
		taskH:       handler.NewTaskHandler(manager, logger.With("component", "task")),
		challengeH:  handler.NewChallengeHandler(manager, challengeStore, logger.With("component", "challenge_handler")),
		settingsH:   handler.NewSettingsHandler(settingsStore, hub, logger.With("component", "settings")),
		rateLimiter: middleware.NewRateLimiter(60, time.Minute),
		logger:      logger,
	}
}

// Hub returns the websocket hub so the caller can run it.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

// Manager returns the challenge manager for background rollover checks.
func (s *Server) Manager() *challenge.Manager {
	return s.manager
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	// Competitor API routes
	mux.HandleFunc("GET /api/competitors", s.competitorH.List)
	mux.HandleFunc("POST /api/competitors", s.rateLimited(s.competitorH.Create))
	mux.HandleFunc("PUT /api/competitors/{id}", s.rateLimited(s.competitorH.Update))
	mux.HandleFunc("DELETE /api/competitors/{id}", s.rateLimited(s.competitorH.Delete))

	// Recurring template API routes
	mux.HandleFunc("GET /api/templates", s.templateH.List)
	mux.HandleFunc("POST /api/templates", s.rateLimited(s.templateH.Create))
	mux.HandleFunc("PUT /api/templates/{id}", s.rateLimited(s.templateH.Update))
	mux.HandleFunc("DELETE /api/templates/{id}", s.rateLimited(s.templateH.Delete))

	// Task API routes
	mux.HandleFunc("GET /api/tasks", s.taskH.List)
	mux.HandleFunc("POST /api/tasks", s.rateLimited(s.taskH.Create))
	mux.HandleFunc("PUT /api/tasks/{id}", s.rateLimited(s.taskH.Rename))
	mux.HandleFunc("DELETE /api/tasks/{id}", s.rateLimited(s.taskH.Delete))
	mux.HandleFunc("PUT /api/tasks/{id}/points", s.rateLimited(s.taskH.SetPoints))

	// Challenge API routes
	mux.HandleFunc("GET /api/challenge", s.challengeH.GetCurrent)
	mux.HandleFunc("PUT /api/challenge/prize", s.rateLimited(s.challengeH.UpdatePrize))
	mux.HandleFunc("GET /api/challenge/history", s.challengeH.History)

	// Settings API routes
	mux.HandleFunc("GET /api/settings", s.settingsH.Get)
	mux.HandleFunc("PUT /api/settings", s.rateLimited(s.settingsH.Update))

	// WebSocket
	mux.HandleFunc("GET /ws", ws.Handle(s.hub, s.logger.With("component", "ws_handler")))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimited(h http.HandlerFunc) http.HandlerFunc {
	rl := middleware.RateLimit(s.rateLimiter, middleware.PerRouteKey)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}
