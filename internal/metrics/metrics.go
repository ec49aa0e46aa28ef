// Package metrics exposes Prometheus metrics for engine observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for the risk engine.
type Metrics struct {
	AnalysesTotal           prometheus.Counter   // Completed single-part risk analyses
	AnomalyScansTotal       prometheus.Counter   // Completed population anomaly scans
	ExplainerFallbacksTotal prometheus.Counter   // Generative explainer failures recovered locally
	AnalysisDuration        prometheus.Histogram // End-to-end analysis latency
}

// NewMetrics creates and registers engine metrics with the provided
// registerer. Passing a fresh registry keeps tests isolated.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	analysesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "partrace_analyses_total",
		Help: "Total number of completed single-part risk analyses",
	})

	anomalyScansTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "partrace_anomaly_scans_total",
		Help: "Total number of completed population anomaly scans",
	})

	explainerFallbacksTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "partrace_explainer_fallbacks_total",
		Help: "Total number of generative explainer failures recovered by the local explainer",
	})

	analysisDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "partrace_analysis_duration_seconds",
		Help:    "End-to-end duration of single-part risk analyses",
		Buckets: prometheus.DefBuckets,
	})

	reg.MustRegister(analysesTotal)
	reg.MustRegister(anomalyScansTotal)
	reg.MustRegister(explainerFallbacksTotal)
	reg.MustRegister(analysisDuration)

	return &Metrics{
		AnalysesTotal:           analysesTotal,
		AnomalyScansTotal:       anomalyScansTotal,
		ExplainerFallbacksTotal: explainerFallbacksTotal,
		AnalysisDuration:        analysisDuration,
	}
}
