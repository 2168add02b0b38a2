package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/trendwise/options-scanner/internal/scan"
)

// Runner executes one scan over the configured ticker universe. Satisfied
// by a closure around scan.Scanner in the command layer.
type Runner interface {
	Run(ctx context.Context) (*scan.BatchResult, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context) (*scan.BatchResult, error)

func (f RunnerFunc) Run(ctx context.Context) (*scan.BatchResult, error) {
	return f(ctx)
}

type Server struct {
	store  *Store
	runner Runner
	logger *zap.Logger

	// Serializes POST /api/v1/scan; a second trigger while one is
	// running gets 409 instead of queueing.
	scanning sync.Mutex
}

func NewServer(store *Store, runner Runner, logger *zap.Logger) *Server {
	return &Server{
		store:  store,
		runner: runner,
		logger: logger,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSignals(w http.ResponseWriter, r *http.Request) {
	latest := s.store.Latest()
	if latest == nil {
		respondError(w, http.StatusNotFound, "no scan has completed yet")
		return
	}
	respondJSON(w, http.StatusOK, latest)
}

func (s *Server) handleSignal(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(chi.URLParam(r, "ticker"))

	sig, ok := s.store.Signal(ticker)
	if !ok {
		respondError(w, http.StatusNotFound, "no signal for "+ticker)
		return
	}
	respondJSON(w, http.StatusOK, sig)
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if !s.scanning.TryLock() {
		respondError(w, http.StatusConflict, "a scan is already running")
		return
	}
	defer s.scanning.Unlock()

	result, err := s.runner.Run(r.Context())
	if err != nil {
		s.logger.Error("scan trigger failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "scan failed: "+err.Error())
		return
	}

	s.store.Set(result)
	respondJSON(w, http.StatusOK, result)
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
