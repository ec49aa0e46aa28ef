// Package engine is the risk analysis facade: the sole entry point the
// outside world consumes. It orchestrates baseline aggregation, risk
// scoring, anomaly detection and explanation for single-part and
// population queries. The engine is read-only over trace history and
// stateless between requests.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/errgroup"

	"github.com/partrace/partrace/internal/analysis/anomaly"
	"github.com/partrace/partrace/internal/analysis/risk"
	"github.com/partrace/partrace/internal/analysis/stats"
	"github.com/partrace/partrace/internal/config"
	"github.com/partrace/partrace/internal/explain"
	"github.com/partrace/partrace/internal/history"
	"github.com/partrace/partrace/internal/logging"
	"github.com/partrace/partrace/internal/metrics"
	"github.com/partrace/partrace/internal/models"
)

// maxConcurrentTypeScans bounds the fan-out of all-type anomaly scans.
const maxConcurrentTypeScans = 4

// Engine orchestrates the analysis pipeline. Safe for concurrent use:
// every derived entity is request-local.
type Engine struct {
	provider   history.Provider
	aggregator *stats.Aggregator
	scorer     *risk.Scorer
	detector   *anomaly.Detector
	explainer  *explain.Selector
	metrics    *metrics.Metrics
	logger     *logging.Logger

	// baselineCache holds per-type population baselines for anomaly scans.
	// nil when disabled. The single-part scoring path always recomputes its
	// baseline so the candidate part can be excluded from it.
	baselineCache *expirable.LRU[string, models.TypeBaseline]
}

// New builds an engine from configuration. The generative explainer is
// wired in only when the config names a provider and a credential
// resolves; otherwise every explanation comes from the local explainer.
func New(ctx context.Context, cfg *config.Config, provider history.Provider, m *metrics.Metrics) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := logging.GetLogger("engine")

	scorerCfg := risk.DefaultConfig()
	scorerCfg.TimeWeight = cfg.Scoring.TimeWeight
	scorerCfg.ReworkWeight = cfg.Scoring.ReworkWeight
	scorerCfg.StationWeight = cfg.Scoring.StationWeight
	scorerCfg.ZCap = cfg.Scoring.ZCap
	scorerCfg.CriticalStations = append(scorerCfg.CriticalStations, cfg.CriticalStations...)

	scorer, err := risk.NewScorer(scorerCfg)
	if err != nil {
		return nil, err
	}

	detector, err := anomaly.NewDetector(anomaly.Config{
		TimeZThreshold: cfg.Anomaly.TimeZThreshold,
		ReworkMargin:   cfg.Anomaly.ReworkMargin,
		MinRework:      cfg.Anomaly.MinRework,
	})
	if err != nil {
		return nil, err
	}

	e := &Engine{
		provider:   provider,
		aggregator: stats.New(),
		scorer:     scorer,
		detector:   detector,
		metrics:    m,
		logger:     logger,
	}

	generator, err := buildGenerator(ctx, cfg)
	if err != nil {
		return nil, err
	}
	e.explainer = explain.NewSelector(
		generator,
		time.Duration(cfg.Explainer.TimeoutSeconds)*time.Second,
		m.ExplainerFallbacksTotal.Inc,
	)
	if generator == nil {
		logger.Info("generative explainer not configured, using local explainer only")
	} else {
		logger.Info("generative explainer configured: %s", cfg.Explainer.Provider)
	}

	if cfg.BaselineCache.TTLSeconds > 0 {
		e.baselineCache = expirable.NewLRU[string, models.TypeBaseline](
			cfg.BaselineCache.MaxEntries,
			nil,
			time.Duration(cfg.BaselineCache.TTLSeconds)*time.Second,
		)
	}

	return e, nil
}

// buildGenerator creates the configured generative provider, or nil when
// no provider or credential is configured.
func buildGenerator(ctx context.Context, cfg *config.Config) (explain.Generator, error) {
	apiKey := cfg.ExplainerAPIKey()
	if cfg.Explainer.Provider == "" || apiKey == "" {
		return nil, nil
	}

	switch cfg.Explainer.Provider {
	case "gemini":
		return explain.NewGeminiGenerator(ctx, apiKey, cfg.Explainer.Model)
	case "anthropic":
		return explain.NewAnthropicGenerator(apiKey, cfg.Explainer.Model), nil
	default:
		return nil, config.NewConfigError("unknown explainer provider %q", cfg.Explainer.Provider)
	}
}

// AnalyzeRisk computes the failure-risk result for a single part.
//
// A part with zero recorded history yields a LOW result with an explicit
// insufficient-history explanation rather than an error. Explanation
// failures never fail the request; only invalid input or an unavailable
// history store do.
func (e *Engine) AnalyzeRisk(ctx context.Context, partID string) (*models.RiskResult, error) {
	if partID == "" {
		return nil, models.NewValidationError("part_id must not be empty")
	}

	start := time.Now()

	events, err := e.provider.EventsForPart(ctx, partID)
	if err != nil {
		return nil, fmt.Errorf("%w: events for part %s: %v", history.ErrUnavailable, partID, err)
	}

	if len(events) == 0 {
		e.logger.Debug("part %s has no trace history", partID)
		return &models.RiskResult{
			Score:           0,
			Severity:        models.SeverityLow,
			Explanation:     fmt.Sprintf("insufficient history: no trace events recorded for part %s", partID),
			ExplainerSource: models.ExplainerLocal,
			Signals:         []models.Signal{},
		}, nil
	}

	features, err := history.BuildFeatures(partID, events)
	if err != nil {
		return nil, err
	}

	// The candidate part is excluded from its own baseline, so this path
	// recomputes instead of using the per-type cache.
	typeEvents, err := e.provider.EventsForType(ctx, features.PartType, partID)
	if err != nil {
		return nil, fmt.Errorf("%w: events for type %s: %v", history.ErrUnavailable, features.PartType, err)
	}
	baseline := e.aggregator.Baseline(features.PartType, typeEvents)

	result, err := e.scorer.Score(features, baseline)
	if err != nil {
		return nil, err
	}

	text, source := e.explainer.Explain(ctx, explain.ExplainInput{
		Features: features,
		Baseline: baseline,
		Score:    result.Score,
		Severity: result.Severity,
		Signals:  result.Signals,
	})
	result.Explanation = text
	result.ExplainerSource = source

	e.metrics.AnalysesTotal.Inc()
	e.metrics.AnalysisDuration.Observe(time.Since(start).Seconds())

	e.logger.InfoWithFields("risk analysis complete",
		logging.Field("part_id", partID),
		logging.Field("score", result.Score),
		logging.Field("severity", string(result.Severity)),
		logging.Field("explainer", string(source)),
	)

	return result, nil
}

// FindAnomalies scans a part type's population for statistical outliers.
// With an empty partType every known type is scanned concurrently and the
// merged flags are re-sorted into the global deterministic order.
func (e *Engine) FindAnomalies(ctx context.Context, partType string) ([]models.AnomalyFlag, error) {
	if partType != "" {
		flags, err := e.scanType(ctx, partType)
		if err != nil {
			return nil, err
		}
		e.metrics.AnomalyScansTotal.Inc()
		return flags, nil
	}

	types, err := e.provider.PartTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: listing part types: %v", history.ErrUnavailable, err)
	}

	results := make([][]models.AnomalyFlag, len(types))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentTypeScans)

	for i, t := range types {
		g.Go(func() error {
			flags, err := e.scanType(gctx, t)
			if err != nil {
				return err
			}
			results[i] = flags
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make([]models.AnomalyFlag, 0)
	for _, flags := range results {
		merged = append(merged, flags...)
	}
	anomaly.SortFlags(merged)

	e.metrics.AnomalyScansTotal.Inc()
	e.logger.Debug("anomaly scan across %d types flagged %d parts", len(types), len(merged))
	return merged, nil
}

func (e *Engine) scanType(ctx context.Context, partType string) ([]models.AnomalyFlag, error) {
	events, err := e.provider.EventsForType(ctx, partType, "")
	if err != nil {
		return nil, fmt.Errorf("%w: events for type %s: %v", history.ErrUnavailable, partType, err)
	}

	population := history.BuildPopulation(events)
	baseline := e.populationBaseline(partType, events)

	return e.detector.Detect(population, baseline), nil
}

// populationBaseline returns the cached per-type baseline, recomputing on
// miss. Correctness never depends on the cache: a miss recomputes from
// the supplied history, and entries expire after the configured TTL.
func (e *Engine) populationBaseline(partType string, events []models.TraceEvent) models.TypeBaseline {
	if e.baselineCache != nil {
		if baseline, ok := e.baselineCache.Get(partType); ok {
			return baseline
		}
	}

	baseline := e.aggregator.Baseline(partType, events)

	if e.baselineCache != nil {
		e.baselineCache.Add(partType, baseline)
	}
	return baseline
}
