package api

import (
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/partrace/partrace/internal/logging"
	"github.com/partrace/partrace/internal/models"
)

// RiskHandler handles /v1/parts/{partId}/risk requests
type RiskHandler struct {
	analyzer RiskAnalyzer
	logger   *logging.Logger
	tracer   trace.Tracer
}

// NewRiskHandler creates a new risk handler
func NewRiskHandler(analyzer RiskAnalyzer, logger *logging.Logger, tracer trace.Tracer) *RiskHandler {
	return &RiskHandler{
		analyzer: analyzer,
		logger:   logger,
		tracer:   tracer,
	}
}

// RiskResponse is the wire shape of a single-part risk analysis.
type RiskResponse struct {
	PartID string `json:"part_id"`
	models.RiskResult
}

// Handle handles risk analysis requests
func (rh *RiskHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ctx, span := rh.tracer.Start(ctx, "risk.Handle",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.route", "/v1/parts/{partId}/risk"),
		),
	)
	defer span.End()

	partID, err := rh.parsePartID(r)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		WriteError(w, http.StatusBadRequest, string(ErrorCodeInvalidRequest), err.Error())
		return
	}
	span.SetAttributes(attribute.String("part.id", partID))

	result, err := rh.analyzer.AnalyzeRisk(ctx, partID)
	if err != nil {
		rh.logger.Error("Risk analysis for part %s failed: %v", partID, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "analysis failed")
		status, errorCode := statusForError(err)
		WriteError(w, status, string(errorCode), err.Error())
		return
	}

	span.SetAttributes(
		attribute.Float64("risk.score", result.Score),
		attribute.String("risk.severity", string(result.Severity)),
		attribute.String("risk.explainer_source", string(result.ExplainerSource)),
	)

	if err := WriteSuccess(w, RiskResponse{PartID: partID, RiskResult: *result}); err != nil {
		rh.logger.Error("Failed to write risk response: %v", err)
	}
}

// parsePartID extracts the part ID from path: /v1/parts/{partId}/risk
func (rh *RiskHandler) parsePartID(r *http.Request) (string, error) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 4 || parts[1] != "parts" || parts[3] != "risk" {
		return "", models.NewValidationError("expected path /v1/parts/{partId}/risk")
	}
	partID := parts[2]
	if partID == "" {
		return "", models.NewValidationError("part ID cannot be empty")
	}
	return partID, nil
}
