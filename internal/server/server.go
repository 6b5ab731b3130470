package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"msdashboard/internal/aggregator"
	"msdashboard/internal/config"
	"msdashboard/internal/graph"
	"msdashboard/pkg/logging"
)

const (
	// DefaultReadHeaderTimeout is the timeout for reading request headers.
	DefaultReadHeaderTimeout = 10 * time.Second
	// DefaultWriteTimeout is the timeout for writing responses. Aggregation
	// runs fan out to every registered service, so this stays generous.
	DefaultWriteTimeout = 120 * time.Second
	// DefaultIdleTimeout is the idle timeout for keepalive connections.
	DefaultIdleTimeout = 120 * time.Second
)

// GraphSource produces a combined graph for one run. It is implemented by
// the orchestrator.
type GraphSource interface {
	Aggregate(ctx context.Context, run *aggregator.Run) *graph.Graph
}

// Server exposes the combined dependency graph over HTTP.
//
// The graph source can be swapped at runtime, which the serve command uses
// to apply configuration reloads without dropping the listener.
type Server struct {
	mu         sync.RWMutex
	source     GraphSource
	httpServer *http.Server
}

// New creates the HTTP server for the given source.
func New(cfg config.ServerConfig, source GraphSource) *Server {
	s := &Server{source: source}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /graph", s.handleGraph)
	mux.HandleFunc("GET /healthz", s.handleHealthz)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
		WriteTimeout:      DefaultWriteTimeout,
		IdleTimeout:       DefaultIdleTimeout,
	}
	return s
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// SetSource swaps the graph source used by subsequent requests.
func (s *Server) SetSource(source GraphSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = source
}

// Start blocks serving requests until Shutdown is called.
func (s *Server) Start() error {
	logging.Info("Server", "Serving graph endpoint on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("graph server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// handleGraph runs one aggregation and writes the combined graph. The
// caller's Authorization header is captured onto the run so the forward
// security strategy can thread it into every branch.
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	source := s.source
	s.mu.RUnlock()

	run := aggregator.NewRun(r.Header.Get("Authorization"))
	logging.Info("Server", "Starting aggregation run %s", run.ID)
	result := source.Aggregate(r.Context(), run)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logging.Error("Server", err, "Failed to write graph for run %s", run.ID)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"UP"}`))
}
