// Package api provides the HTTP API for task analysis.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/Elangosridhar/Smarttask-analysis/pkg/observability"
)

// Server is the HTTP API server.
type Server struct {
	mux     *http.ServeMux
	server  *http.Server
	logger  *slog.Logger
	handler *AnalysisHandler
	health  *observability.HealthRegistry
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	MaxBodyBytes int64
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         "0.0.0.0:8080",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		MaxBodyBytes: 4 << 20,
	}
}

// NewServer creates a new API server. A nil health registry reports healthy.
func NewServer(cfg ServerConfig, handler *AnalysisHandler, health *observability.HealthRegistry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if health == nil {
		health = observability.NewHealthRegistry()
	}

	s := &Server{
		mux:     http.NewServeMux(),
		logger:  logger,
		handler: handler,
		health:  health,
	}

	s.registerRoutes()

	var root http.Handler = s.mux
	if cfg.MaxBodyBytes > 0 {
		root = limitBody(root, cfg.MaxBodyBytes)
	}
	root = requestContext(root, logger)

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      root,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// registerRoutes sets up the API routes. The task routes answer with and
// without a trailing slash.
func (s *Server) registerRoutes() {
	s.mux.Handle("GET /health", s.health.Handler())

	s.mux.HandleFunc("POST /api/tasks/analyze/{$}", s.handler.AnalyzeTasks)
	s.mux.HandleFunc("POST /api/tasks/analyze", s.handler.AnalyzeTasks)
	s.mux.HandleFunc("GET /api/tasks/suggest/{$}", s.handler.SuggestSample)
	s.mux.HandleFunc("GET /api/tasks/suggest", s.handler.SuggestSample)
	s.mux.HandleFunc("POST /api/tasks/suggest/{$}", s.handler.SuggestTasks)
	s.mux.HandleFunc("POST /api/tasks/suggest", s.handler.SuggestTasks)

	s.mux.HandleFunc("GET /api/strategies", s.handler.ListStrategies)
	s.mux.HandleFunc("GET /api/runs", s.handler.ListRuns)
	s.mux.HandleFunc("GET /api/runs/{runID}", s.handler.GetRun)
}

// Handler returns the fully wrapped root handler.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the API server.
func (s *Server) Start() error {
	s.logger.Info("starting API server",
		"addr", s.server.Addr,
	)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.server.Shutdown(ctx)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string              `json:"error"`
	Message string              `json:"message,omitempty"`
	Details map[string][]string `json:"details,omitempty"`
	Index   *int                `json:"task_index,omitempty"`
}
