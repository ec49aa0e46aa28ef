package apiserver

import (
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/partrace/partrace/internal/api"
)

// registerHandlers registers all HTTP handlers
func (s *Server) registerHandlers() {
	tracer := s.getTracer("partrace.api")

	riskHandler := api.NewRiskHandler(s.analyzer, s.logger, tracer)
	anomaliesHandler := api.NewAnomaliesHandler(s.analyzer, s.logger, tracer)

	// /v1/parts/{partId}/risk
	s.router.HandleFunc("/v1/parts/", s.withMethod(http.MethodGet, riskHandler.Handle))
	s.router.HandleFunc("/v1/anomalies", s.withMethod(http.MethodGet, anomaliesHandler.Handle))

	s.router.HandleFunc("/health", s.handleHealth)
	s.router.HandleFunc("/ready", s.handleReady)
	s.router.Handle("/metrics", s.handleMetrics())
}

// getTracer returns a tracer from the configured provider, falling back
// to the global provider when tracing is disabled.
func (s *Server) getTracer(name string) trace.Tracer {
	if s.tracingProvider != nil && s.tracingProvider.IsEnabled() {
		return s.tracingProvider.GetTracer(name)
	}
	return otel.GetTracerProvider().Tracer(name)
}
