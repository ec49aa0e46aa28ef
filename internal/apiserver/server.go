// Package apiserver exposes the analysis engine over HTTP: risk analysis
// and anomaly scan endpoints plus health, readiness and Prometheus
// metrics.
package apiserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/partrace/partrace/internal/api"
	"github.com/partrace/partrace/internal/logging"
)

// ReadinessChecker is an interface for checking component readiness
type ReadinessChecker interface {
	IsReady() bool
}

// NoOpReadinessChecker is a ReadinessChecker that always returns true.
// Use this when no readiness checking is needed.
type NoOpReadinessChecker struct{}

// IsReady always returns true for the no-op checker.
func (n *NoOpReadinessChecker) IsReady() bool {
	return true
}

// TracingProvider hands out named tracers when tracing is enabled.
type TracingProvider interface {
	GetTracer(name string) trace.Tracer
	IsEnabled() bool
}

// Server handles HTTP API requests
type Server struct {
	port             int
	server           *http.Server
	logger           *logging.Logger
	analyzer         api.RiskAnalyzer
	registry         *prometheus.Registry
	router           *http.ServeMux
	readinessChecker ReadinessChecker
	tracingProvider  TracingProvider
}

// New creates a new API server serving the given analyzer.
func New(
	port int,
	analyzer api.RiskAnalyzer,
	registry *prometheus.Registry,
	readinessChecker ReadinessChecker,
	tracingProvider TracingProvider,
) *Server {
	s := &Server{
		port:             port,
		logger:           logging.GetLogger("api"),
		analyzer:         analyzer,
		registry:         registry,
		router:           http.NewServeMux(),
		readinessChecker: readinessChecker,
		tracingProvider:  tracingProvider,
	}

	s.registerHandlers()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.corsMiddleware(s.router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start begins serving HTTP requests. Non-blocking: the listener runs in
// its own goroutine.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting API server on port %d", s.port)

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error: %v", err)
		}
	}()

	s.logger.Info("API server started and listening on port %d", s.port)
	return nil
}

// Stop gracefully stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping API server...")

	done := make(chan error, 1)
	go func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		done <- s.server.Shutdown(shutdownCtx)
	}()

	select {
	case err := <-done:
		if err != nil {
			s.logger.Error("HTTP server shutdown error: %v", err)
			return err
		}
		s.logger.Info("API server stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("API server shutdown timeout")
		return ctx.Err()
	}
}

// Name implements lifecycle.Component
func (s *Server) Name() string {
	return "API Server"
}

// GetPort returns the port the server is listening on
func (s *Server) GetPort() int {
	return s.port
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status": "healthy",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = api.WriteJSON(w, response)
}

// handleReady handles readiness check requests
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ready := s.readinessChecker != nil && s.readinessChecker.IsReady()

	response := map[string]interface{}{
		"ready": ready,
	}

	if ready {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	_ = api.WriteJSON(w, response)
}

// handleMetrics serves the Prometheus metrics endpoint.
func (s *Server) handleMetrics() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}
