package apiserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partrace/partrace/internal/models"
)

type stubAnalyzer struct{}

func (s *stubAnalyzer) AnalyzeRisk(ctx context.Context, partID string) (*models.RiskResult, error) {
	return &models.RiskResult{
		Score:           0.1,
		Severity:        models.SeverityLow,
		Explanation:     "within normal parameters for part type X1",
		ExplainerSource: models.ExplainerLocal,
		Signals:         []models.Signal{},
	}, nil
}

func (s *stubAnalyzer) FindAnomalies(ctx context.Context, partType string) ([]models.AnomalyFlag, error) {
	return []models.AnomalyFlag{}, nil
}

func newTestServer() *Server {
	return New(0, &stubAnalyzer{}, prometheus.NewRegistry(), &NoOpReadinessChecker{}, nil)
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.corsMiddleware(s.router).ServeHTTP(rec, req)
	return rec
}

func TestServerRoutes(t *testing.T) {
	server := newTestServer()

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/v1/parts/PZA-0001/risk", http.StatusOK},
		{http.MethodGet, "/v1/anomalies", http.StatusOK},
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/ready", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodPost, "/v1/anomalies", http.StatusMethodNotAllowed},
		{http.MethodDelete, "/v1/parts/PZA-0001/risk", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := serve(server, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestServerCORSPreflight(t *testing.T) {
	server := newTestServer()

	rec := serve(server, httptest.NewRequest(http.MethodOptions, "/v1/anomalies", nil))

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServerReadiness(t *testing.T) {
	server := New(0, &stubAnalyzer{}, prometheus.NewRegistry(), falseChecker{}, nil)

	rec := serve(server, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

type falseChecker struct{}

func (falseChecker) IsReady() bool { return false }
