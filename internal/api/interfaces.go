package api

import (
	"context"

	"github.com/partrace/partrace/internal/models"
)

// RiskAnalyzer is the engine surface the HTTP handlers consume.
type RiskAnalyzer interface {
	// AnalyzeRisk computes the risk result for a single part.
	AnalyzeRisk(ctx context.Context, partID string) (*models.RiskResult, error)
	// FindAnomalies scans one part type, or all types when partType is empty.
	FindAnomalies(ctx context.Context, partType string) ([]models.AnomalyFlag, error)
}
