// Package server exposes the analysis pipeline over HTTP.
//
// The API mirrors the dashboard workflow: POST a simulation or an explicit
// scenario to run an analysis, then poll the returned run ID for the
// snapshot. The server keeps no state of its own - snapshots live in the
// configured store, so multiple instances can serve one dashboard.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gridlock-dev/gridlock/pkg/pipeline"
	"github.com/gridlock-dev/gridlock/pkg/scenario"
	"github.com/gridlock-dev/gridlock/pkg/store"
)

// Server handles HTTP requests for the analysis API.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
}

// New creates a server. A nil store falls back to an in-memory store; a nil
// logger to the default logger.
func New(s store.Store, logger *log.Logger) *Server {
	if s == nil {
		s = store.NewMemoryStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		runner: pipeline.NewRunner(s, logger),
		store:  s,
		logger: logger,
	}
}

// Routes builds the HTTP route tree.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/simulate", s.handleSimulate)
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/data/{runID}", s.handleData)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// simulateRequest is the body for POST /api/simulate.
type simulateRequest struct {
	ThreadCount   int    `json:"thread_count"`
	ResourceCount int    `json:"resource_count"`
	Demo          string `json:"demo,omitempty"` // circular (default) or random
	Seed          int64  `json:"seed,omitempty"`
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	demo := req.Demo
	if demo == "" {
		demo = pipeline.DemoCircular
	}

	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		Demo:      demo,
		Threads:   req.ThreadCount,
		Resources: req.ResourceCount,
		Seed:      req.Seed,
		Logger:    s.logger,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result.Snapshot)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var scen scenario.Scenario
	if err := json.NewDecoder(r.Body).Decode(&scen); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		Scenario: &scen,
		Logger:   s.logger,
	})
	if err != nil {
		// Construction errors mean the caller's allocation data is
		// inconsistent (dangling reference, doubly-held resource).
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result.Snapshot)
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	snap, err := s.store.Get(r.Context(), runID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no snapshot for run "+runID)
		return
	}
	if err != nil {
		s.logger.Error("snapshot lookup failed", "run_id", runID, "err", err)
		writeError(w, http.StatusInternalServerError, "snapshot lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
