// Package api exposes the HTTP surface: reminder creation and listing, a
// health check, and the voice webhook Twilio fetches for call instructions.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"callminder/internal/config"
	"callminder/internal/store"
)

// Server holds the handler dependencies. Constructed once in main and bound
// to an http.Server.
type Server struct {
	cfg      *config.Config
	store    *store.Store
	validate *validator.Validate
	log      *logrus.Logger
}

// NewServer wires the HTTP handlers to the task store.
func NewServer(cfg *config.Config, taskStore *store.Store, log *logrus.Logger) *Server {
	return &Server{
		cfg:      cfg,
		store:    taskStore,
		validate: validator.New(),
		log:      log,
	}
}

// Router builds the chi router with middleware and all routes attached.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware(s.cfg.CORSOrigins))

	r.Get("/health", s.handleHealth)
	r.Post("/add-task", s.handleAddTask)
	r.Get("/tasks", s.handleListTasks)
	r.Get("/voice", s.handleVoice)
	r.Post("/voice", s.handleVoice)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.WithError(err).Error("encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
