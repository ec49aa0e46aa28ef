package explain

import (
	"context"
	"strings"
	"time"

	"github.com/partrace/partrace/internal/logging"
	"github.com/partrace/partrace/internal/models"
)

// DefaultTimeout bounds the single generative attempt so a slow external
// call cannot stall the whole analysis request.
const DefaultTimeout = 5 * time.Second

// Selector implements the explanation fallback policy: attempt the
// generative path when a generator is configured, fall back to the local
// explainer on any failure (missing credential, timeout, error, empty
// response). Failures are logged, never propagated.
type Selector struct {
	generator Generator // nil when no credential is configured
	local     *LocalExplainer
	timeout   time.Duration
	logger    *logging.Logger

	// onFallback is invoked whenever a configured generator failed and the
	// local explainer took over. Used for metrics; may be nil.
	onFallback func()
}

// NewSelector creates a selector. generator may be nil, in which case
// every explanation comes from the local explainer.
func NewSelector(generator Generator, timeout time.Duration, onFallback func()) *Selector {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Selector{
		generator:  generator,
		local:      NewLocalExplainer(),
		timeout:    timeout,
		logger:     logging.GetLogger("explain"),
		onFallback: onFallback,
	}
}

// GenerativeConfigured reports whether a generative provider is available.
func (s *Selector) GenerativeConfigured() bool {
	return s.generator != nil
}

// Explain produces the explanation text and the source that produced it.
// It never returns an error: the local explainer is total.
func (s *Selector) Explain(ctx context.Context, input ExplainInput) (string, models.ExplainerSource) {
	if s.generator == nil {
		return s.local.Explain(input), models.ExplainerLocal
	}

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.generator.Generate(genCtx, buildPrompt(input))
	if err != nil {
		s.logger.Warn("generative explainer %s failed, falling back to local: %v", s.generator.Source(), err)
		return s.fallback(input)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		s.logger.Warn("generative explainer %s returned empty text, falling back to local", s.generator.Source())
		return s.fallback(input)
	}

	return text, s.generator.Source()
}

func (s *Selector) fallback(input ExplainInput) (string, models.ExplainerSource) {
	if s.onFallback != nil {
		s.onFallback()
	}
	return s.local.Explain(input), models.ExplainerLocal
}
