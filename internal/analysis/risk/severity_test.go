package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/partrace/partrace/internal/models"
)

func TestSeverityForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  models.Severity
	}{
		{0.0, models.SeverityLow},
		{0.32, models.SeverityLow},
		{0.33, models.SeverityMedium},
		{0.50, models.SeverityMedium},
		{0.65, models.SeverityMedium},
		{0.66, models.SeverityHigh},
		{1.0, models.SeverityHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SeverityForScore(tt.score), "score=%v", tt.score)
	}
}
