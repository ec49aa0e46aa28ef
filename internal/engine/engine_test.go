package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partrace/partrace/internal/config"
	"github.com/partrace/partrace/internal/history"
	"github.com/partrace/partrace/internal/metrics"
	"github.com/partrace/partrace/internal/models"
)

var testStart = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

// partWithTotal emits one closed event giving the part the exact total
// cycle time in seconds.
func partWithTotal(partID, partType string, totalSeconds int, outcome models.Outcome) models.TraceEvent {
	exited := testStart.Add(time.Duration(totalSeconds) * time.Second)
	return models.TraceEvent{
		PartID:    partID,
		PartType:  partType,
		Station:   "CORTE",
		EnteredAt: testStart,
		ExitedAt:  &exited,
		Outcome:   outcome,
	}
}

func newTestEngine(t *testing.T, store history.Provider) (*Engine, *metrics.Metrics) {
	t.Helper()

	m := metrics.NewMetrics(prometheus.NewRegistry())
	eng, err := New(context.Background(), config.DefaultConfig(), store, m)
	require.NoError(t, err)
	return eng, m
}

func TestAnalyzeRiskEmptyPartID(t *testing.T) {
	eng, _ := newTestEngine(t, history.NewMemoryStore())

	_, err := eng.AnalyzeRisk(context.Background(), "")
	require.Error(t, err)
	assert.True(t, models.IsValidationError(err))
}

func TestAnalyzeRiskUnknownPartIsLowWithInsufficientHistory(t *testing.T) {
	eng, m := newTestEngine(t, history.NewMemoryStore())

	result, err := eng.AnalyzeRisk(context.Background(), "PZA-9999")
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.Score)
	assert.Equal(t, models.SeverityLow, result.Severity)
	assert.Equal(t, models.ExplainerLocal, result.ExplainerSource)
	assert.Contains(t, result.Explanation, "insufficient history")
	assert.Empty(t, result.Signals)

	// The zero-history shortcut does not count as a completed analysis.
	assert.Equal(t, 0.0, testutil.ToFloat64(m.AnalysesTotal))
}

func TestAnalyzeRiskEndToEnd(t *testing.T) {
	store := history.NewMemoryStore()

	// Baseline population: three completed X1 parts around 900s.
	require.NoError(t, store.Add(
		partWithTotal("PZA-0001", "X1", 800, models.OutcomeOK),
		partWithTotal("PZA-0002", "X1", 900, models.OutcomeOK),
		partWithTotal("PZA-0003", "X1", 1000, models.OutcomeOK),
	))

	// Candidate: 850s total, one rework, currently open at final
	// inspection.
	require.NoError(t, store.Add(
		partWithTotal("PZA-0042", "X1", 850, models.OutcomeRework),
		models.TraceEvent{
			PartID:    "PZA-0042",
			PartType:  "X1",
			Station:   "INSPECCION_FINAL",
			EnteredAt: testStart.Add(time.Hour),
		},
	))

	eng, m := newTestEngine(t, store)

	result, err := eng.AnalyzeRisk(context.Background(), "PZA-0042")
	require.NoError(t, err)

	// Time signal 0 (850 below mean 900), rework 1, station 1:
	// 0.35 + 0.20 = 0.55, MEDIUM.
	assert.Equal(t, 0.55, result.Score)
	assert.Equal(t, models.SeverityMedium, result.Severity)
	assert.Equal(t, models.ExplainerLocal, result.ExplainerSource)
	assert.NotEmpty(t, result.Explanation)
	require.Len(t, result.Signals, 3)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnalysesTotal))
}

func TestAnalyzeRiskExcludesCandidateFromBaseline(t *testing.T) {
	store := history.NewMemoryStore()

	require.NoError(t, store.Add(
		partWithTotal("PZA-0001", "X1", 90, models.OutcomeOK),
		partWithTotal("PZA-0002", "X1", 100, models.OutcomeOK),
		partWithTotal("PZA-0003", "X1", 110, models.OutcomeOK),
		partWithTotal("PZA-0004", "X1", 100, models.OutcomeOK),
		// Candidate is a massive outlier; if included in its own baseline
		// it would drag the mean up and dilute its own z-score.
		partWithTotal("PZA-0042", "X1", 200, models.OutcomeOK),
	))

	eng, _ := newTestEngine(t, store)

	result, err := eng.AnalyzeRisk(context.Background(), "PZA-0042")
	require.NoError(t, err)

	// Against the candidate-free baseline (mean 100, stddev ~7.07) the
	// z-score saturates the time signal completely.
	assert.Equal(t, 0.45, result.Score)
}

// failingProvider simulates an unreachable trace history store.
type failingProvider struct{}

func (f *failingProvider) EventsForPart(ctx context.Context, partID string) ([]models.TraceEvent, error) {
	return nil, errors.New("connection refused")
}

func (f *failingProvider) EventsForType(ctx context.Context, partType, excludePartID string) ([]models.TraceEvent, error) {
	return nil, errors.New("connection refused")
}

func (f *failingProvider) PartTypes(ctx context.Context) ([]string, error) {
	return nil, errors.New("connection refused")
}

func TestAnalyzeRiskUpstreamUnavailable(t *testing.T) {
	eng, _ := newTestEngine(t, &failingProvider{})

	_, err := eng.AnalyzeRisk(context.Background(), "PZA-0001")
	require.Error(t, err)
	assert.True(t, errors.Is(err, history.ErrUnavailable))
}

func TestFindAnomaliesUpstreamUnavailable(t *testing.T) {
	eng, _ := newTestEngine(t, &failingProvider{})

	_, err := eng.FindAnomalies(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, history.ErrUnavailable))
}

func TestFindAnomaliesSingleType(t *testing.T) {
	store := history.NewMemoryStore()

	// Totals 100,100,100,100,1000: the slow part sits exactly at z=2.0.
	for i, total := range []int{100, 100, 100, 100, 1000} {
		require.NoError(t, store.Add(
			partWithTotal(fmt.Sprintf("PZA-%04d", i+1), "X1", total, models.OutcomeOK),
		))
	}

	eng, m := newTestEngine(t, store)

	flags, err := eng.FindAnomalies(context.Background(), "X1")
	require.NoError(t, err)

	require.Len(t, flags, 1)
	assert.Equal(t, "PZA-0005", flags[0].PartID)
	assert.Equal(t, models.ReasonTimeOutlier, flags[0].Reason)
	assert.InDelta(t, 2.0, flags[0].Magnitude, 1e-9)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnomalyScansTotal))
}

func TestFindAnomaliesIgnoresInFlightParts(t *testing.T) {
	store := history.NewMemoryStore()

	// Completed population 900,900,1000,1000: every part sits at |z|=1.
	for i, total := range []int{900, 900, 1000, 1000} {
		require.NoError(t, store.Add(
			partWithTotal(fmt.Sprintf("PZA-%04d", i+1), "X1", total, models.OutcomeOK),
		))
	}
	// A part that just entered its first station has zero accumulated
	// time and must not be scored against the completed population.
	require.NoError(t, store.Add(models.TraceEvent{
		PartID:    "PZA-NEW",
		PartType:  "X1",
		Station:   "CORTE",
		EnteredAt: testStart,
		Outcome:   models.OutcomeOK,
	}))

	eng, _ := newTestEngine(t, store)

	flags, err := eng.FindAnomalies(context.Background(), "X1")
	require.NoError(t, err)
	assert.Empty(t, flags)
}

func TestFindAnomaliesAllTypesMergedAndSorted(t *testing.T) {
	store := history.NewMemoryStore()

	// X1: outlier at z=2.0.
	for i, total := range []int{100, 100, 100, 100, 1000} {
		require.NoError(t, store.Add(
			partWithTotal(fmt.Sprintf("PZA-X%03d", i+1), "X1", total, models.OutcomeOK),
		))
	}
	// Y1: rework outlier whose excess (4 - 4/3 = 2.67) outranks the X1
	// time flag at |z|=2.0.
	require.NoError(t, store.Add(
		partWithTotal("PZA-Y001", "Y1", 500, models.OutcomeOK),
		partWithTotal("PZA-Y002", "Y1", 500, models.OutcomeOK),
	))
	for i := 0; i < 4; i++ {
		require.NoError(t, store.Add(
			partWithTotal("PZA-Y003", "Y1", 500, models.OutcomeRework),
		))
	}

	eng, _ := newTestEngine(t, store)

	flags, err := eng.FindAnomalies(context.Background(), "")
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(flags), 2)
	assert.Equal(t, "PZA-Y003", flags[0].PartID)
	assert.Equal(t, models.ReasonReworkOutlier, flags[0].Reason)

	var partIDs []string
	for _, f := range flags {
		partIDs = append(partIDs, f.PartID)
	}
	assert.Contains(t, partIDs, "PZA-X005")
}

func TestFindAnomaliesUnknownTypeIsEmpty(t *testing.T) {
	eng, _ := newTestEngine(t, history.NewMemoryStore())

	flags, err := eng.FindAnomalies(context.Background(), "Z9")
	require.NoError(t, err)
	assert.Empty(t, flags)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Scoring.ZCap = -1

	m := metrics.NewMetrics(prometheus.NewRegistry())
	_, err := New(context.Background(), cfg, history.NewMemoryStore(), m)
	assert.Error(t, err)
}
