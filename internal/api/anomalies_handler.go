package api

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/partrace/partrace/internal/logging"
	"github.com/partrace/partrace/internal/models"
)

// AnomaliesHandler handles /v1/anomalies requests
type AnomaliesHandler struct {
	analyzer RiskAnalyzer
	logger   *logging.Logger
	tracer   trace.Tracer
}

// NewAnomaliesHandler creates a new anomalies handler
func NewAnomaliesHandler(analyzer RiskAnalyzer, logger *logging.Logger, tracer trace.Tracer) *AnomaliesHandler {
	return &AnomaliesHandler{
		analyzer: analyzer,
		logger:   logger,
		tracer:   tracer,
	}
}

// AnomaliesResponse is the wire shape of an anomaly scan.
type AnomaliesResponse struct {
	Anomalies []models.AnomalyFlag `json:"anomalies"`
	Count     int                  `json:"count"`
	PartType  string               `json:"part_type,omitempty"`
	Metadata  ScanMetadata         `json:"metadata"`
}

// ScanMetadata carries scan execution details.
type ScanMetadata struct {
	ExecutionTimeMs int64 `json:"execution_time_ms"`
}

// Handle handles anomaly scan requests
func (ah *AnomaliesHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	// part_type is optional; empty means scan every known type.
	partType := r.URL.Query().Get("part_type")

	ctx, span := ah.tracer.Start(ctx, "anomalies.Handle",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.route", "/v1/anomalies"),
			attribute.String("scan.part_type", partType),
		),
	)
	defer span.End()

	flags, err := ah.analyzer.FindAnomalies(ctx, partType)
	if err != nil {
		ah.logger.Error("Anomaly scan failed: %v", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "scan failed")
		status, errorCode := statusForError(err)
		WriteError(w, status, string(errorCode), err.Error())
		return
	}

	span.SetAttributes(attribute.Int("scan.flag_count", len(flags)))

	response := AnomaliesResponse{
		Anomalies: flags,
		Count:     len(flags),
		PartType:  partType,
		Metadata: ScanMetadata{
			ExecutionTimeMs: time.Since(start).Milliseconds(),
		},
	}

	if err := WriteSuccess(w, response); err != nil {
		ah.logger.Error("Failed to write anomalies response: %v", err)
	}
}
