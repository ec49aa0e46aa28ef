package risk

import "github.com/partrace/partrace/internal/models"

// Severity thresholds over the rounded risk score. Boundaries are
// inclusive on the upper side: a score of exactly 0.33 is MEDIUM and a
// score of exactly 0.66 is HIGH.
const (
	// SeverityMediumThreshold is the lowest score classified MEDIUM.
	SeverityMediumThreshold = 0.33
	// SeverityHighThreshold is the lowest score classified HIGH.
	SeverityHighThreshold = 0.66
)

// SeverityForScore buckets a risk score into LOW, MEDIUM or HIGH.
func SeverityForScore(score float64) models.Severity {
	switch {
	case score >= SeverityHighThreshold:
		return models.SeverityHigh
	case score >= SeverityMediumThreshold:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}
