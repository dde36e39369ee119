// Package server exposes taskpilot over HTTP: the two model-backed
// endpoints (/breakdown, /plan) plus a small task API mirroring the
// operations of the task list UI. Responses are always well-formed JSON
// envelopes regardless of model output quality.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"taskpilot/internal/breakdown"
	"taskpilot/internal/llm"
	"taskpilot/internal/planner"
	"taskpilot/internal/store"
)

// Server wires the HTTP routes to the orchestrators and the store.
type Server struct {
	store     *store.Store
	breaker   *breakdown.Breaker
	planner   *planner.Planner
	generator llm.Generator
	log       *zap.SugaredLogger
	router    *mux.Router
}

// New creates a Server and registers its routes. log may be nil.
func New(st *store.Store, br *breakdown.Breaker, pl *planner.Planner, gen llm.Generator, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s := &Server{
		store:     st,
		breaker:   br,
		planner:   pl,
		generator: gen,
		log:       log,
		router:    mux.NewRouter(),
	}
	s.routes()
	return s
}

// routes registers all endpoints.
func (s *Server) routes() {
	s.router.Use(s.logRequests)

	s.router.HandleFunc("/breakdown", s.handleBreakdown).Methods(http.MethodPost)
	s.router.HandleFunc("/plan", s.handlePlanDay).Methods(http.MethodPost)

	s.router.HandleFunc("/tasks", s.handleListTasks).Methods(http.MethodGet)
	s.router.HandleFunc("/tasks", s.handleCreateTask).Methods(http.MethodPost)
	s.router.HandleFunc("/tasks/{taskID}/toggle", s.handleToggleTask).Methods(http.MethodPost)
	s.router.HandleFunc("/tasks/{taskID}/breakdown", s.handleBreakTask).Methods(http.MethodPost)
	s.router.HandleFunc("/tasks/{taskID}", s.handleDeleteTask).Methods(http.MethodDelete)

	s.router.HandleFunc("/plan", s.handleGetPlan).Methods(http.MethodGet)
	s.router.HandleFunc("/plan", s.handleClearPlan).Methods(http.MethodDelete)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// logRequests logs every request with its duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Infow("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}

// writeJSON writes a JSON response with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Errorw("encode response", "error", err)
	}
}

// writeError writes an error envelope.
func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
