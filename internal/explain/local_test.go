package explain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/partrace/partrace/internal/models"
)

func TestLocalExplainerInsufficientHistory(t *testing.T) {
	input := riskyInput()
	input.Baseline = models.DefaultBaseline("X1")

	text := NewLocalExplainer().Explain(input)

	assert.Contains(t, text, "insufficient history")
	assert.Contains(t, text, "X1")
}

func TestLocalExplainerDominantFactors(t *testing.T) {
	// All three signals dominant: the explanation names each factor.
	text := NewLocalExplainer().Explain(riskyInput())

	assert.Contains(t, text, "cycle time")
	assert.Contains(t, text, "2 rework event(s)")
	assert.Contains(t, text, "INSPECCION_FINAL")
}

func TestLocalExplainerWithinNormalParameters(t *testing.T) {
	input := riskyInput()
	for i := range input.Signals {
		input.Signals[i].Value = 0
	}

	text := NewLocalExplainer().Explain(input)

	assert.Contains(t, text, "within normal parameters")
}

func TestLocalExplainerDeterministic(t *testing.T) {
	explainer := NewLocalExplainer()
	first := explainer.Explain(riskyInput())
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, explainer.Explain(riskyInput()))
	}
}
