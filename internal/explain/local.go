package explain

import (
	"fmt"
	"strings"

	"github.com/partrace/partrace/internal/analysis/risk"
)

// localSignalThreshold is the signal value above which a factor is
// considered dominant and mentioned in the local explanation.
const localSignalThreshold = 0.5

// LocalExplainer renders a deterministic, template-based explanation from
// the contributing signals. It is a pure function of its input and always
// succeeds; it is the fallback for every generative failure.
type LocalExplainer struct{}

// NewLocalExplainer creates the local heuristic explainer.
func NewLocalExplainer() *LocalExplainer {
	return &LocalExplainer{}
}

// Explain lists the dominant risk factors in a single sentence.
func (l *LocalExplainer) Explain(input ExplainInput) string {
	if input.Baseline.SampleSize == 0 {
		return fmt.Sprintf("insufficient history for part type %s; risk assessed from current state only", input.Features.PartType)
	}

	var factors []string
	for _, sig := range input.Signals {
		if sig.Value < localSignalThreshold {
			continue
		}
		switch sig.Name {
		case risk.SignalTimeDeviation:
			pct := 0.0
			if input.Baseline.MeanSeconds > 0 {
				pct = (input.Features.TotalSeconds - input.Baseline.MeanSeconds) / input.Baseline.MeanSeconds * 100
			}
			factors = append(factors, fmt.Sprintf("cycle time %.0f%% above average for type %s", pct, input.Features.PartType))
		case risk.SignalRework:
			factors = append(factors, fmt.Sprintf("has %d rework event(s)", input.Features.ReworkCount))
		case risk.SignalStation:
			factors = append(factors, fmt.Sprintf("currently at late-stage station %s", input.Features.CurrentStation))
		}
	}

	if len(factors) == 0 {
		return fmt.Sprintf("within normal parameters for part type %s", input.Features.PartType)
	}
	return strings.Join(factors, "; ")
}
