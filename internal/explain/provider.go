// Package explain produces the human-readable justification for a risk
// score. Two strategies exist: a deterministic local template explainer
// that always succeeds, and an optional generative one backed by an
// external text-completion service. The selector tries the generative
// path when a credential is configured and falls back to the local one on
// any failure; the risk score itself is never affected by explanation
// problems.
package explain

import (
	"context"

	"github.com/partrace/partrace/internal/models"
)

// Generator is the text-completion abstraction behind the generative
// explainer. Implementations wrap one external provider each.
type Generator interface {
	// Generate sends a prompt and returns the completion text. A single
	// attempt; callers bound it with a context deadline.
	Generate(ctx context.Context, prompt string) (string, error)

	// Source identifies the provider for the result's explainer-source flag.
	Source() models.ExplainerSource
}

// ExplainInput carries everything the explainers may reference.
type ExplainInput struct {
	Features models.PartFeatureVector
	Baseline models.TypeBaseline
	Score    float64
	Severity models.Severity
	Signals  []models.Signal
}
