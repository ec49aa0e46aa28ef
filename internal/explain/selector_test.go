package explain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/partrace/partrace/internal/models"
)

// mockGenerator scripts the generative path for selector tests.
type mockGenerator struct {
	text  string
	err   error
	delay time.Duration
	calls int
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.calls++
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return m.text, m.err
}

func (m *mockGenerator) Source() models.ExplainerSource {
	return models.ExplainerGemini
}

func riskyInput() ExplainInput {
	return ExplainInput{
		Features: models.PartFeatureVector{
			PartID: "PZA-0042", PartType: "X1",
			ReworkCount: 2, TotalSeconds: 1800, CurrentStation: "INSPECCION_FINAL",
		},
		Baseline: models.TypeBaseline{
			PartType: "X1", MeanSeconds: 900, StdDevSeconds: 100, MeanRework: 0.2, SampleSize: 10,
		},
		Score:    0.88,
		Severity: models.SeverityHigh,
		Signals: []models.Signal{
			{Name: "time_deviation", Value: 1.0, Weight: 0.45},
			{Name: "rework", Value: 1.0, Weight: 0.35},
			{Name: "station_proximity", Value: 1.0, Weight: 0.20},
		},
	}
}

func TestSelectorNilGeneratorUsesLocal(t *testing.T) {
	selector := NewSelector(nil, time.Second, nil)

	text, source := selector.Explain(context.Background(), riskyInput())

	assert.Equal(t, models.ExplainerLocal, source)
	assert.NotEmpty(t, text)
	assert.False(t, selector.GenerativeConfigured())
}

func TestSelectorGeneratorSuccess(t *testing.T) {
	gen := &mockGenerator{text: "part is far above its type average"}
	fallbacks := 0
	selector := NewSelector(gen, time.Second, func() { fallbacks++ })

	text, source := selector.Explain(context.Background(), riskyInput())

	assert.Equal(t, models.ExplainerGemini, source)
	assert.Equal(t, "part is far above its type average", text)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, 0, fallbacks)
}

func TestSelectorGeneratorErrorFallsBack(t *testing.T) {
	gen := &mockGenerator{err: errors.New("quota exceeded")}
	fallbacks := 0
	selector := NewSelector(gen, time.Second, func() { fallbacks++ })

	text, source := selector.Explain(context.Background(), riskyInput())

	assert.Equal(t, models.ExplainerLocal, source)
	assert.NotEmpty(t, text)
	assert.Equal(t, 1, fallbacks)
}

func TestSelectorEmptyResponseFallsBack(t *testing.T) {
	gen := &mockGenerator{text: "   \n  "}
	fallbacks := 0
	selector := NewSelector(gen, time.Second, func() { fallbacks++ })

	text, source := selector.Explain(context.Background(), riskyInput())

	assert.Equal(t, models.ExplainerLocal, source)
	assert.NotEmpty(t, text)
	assert.Equal(t, 1, fallbacks)
}

func TestSelectorTimeoutFallsBack(t *testing.T) {
	gen := &mockGenerator{text: "too slow", delay: 500 * time.Millisecond}
	selector := NewSelector(gen, 20*time.Millisecond, nil)

	start := time.Now()
	text, source := selector.Explain(context.Background(), riskyInput())

	assert.Equal(t, models.ExplainerLocal, source)
	assert.NotEmpty(t, text)
	assert.Less(t, time.Since(start), 400*time.Millisecond)
}

func TestSelectorPromptMentionsPart(t *testing.T) {
	input := riskyInput()
	prompt := buildPrompt(input)

	assert.Contains(t, prompt, "PZA-0042")
	assert.Contains(t, prompt, "X1")
	assert.Contains(t, prompt, "HIGH")
}
