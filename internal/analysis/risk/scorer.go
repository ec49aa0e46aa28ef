// Package risk combines a part's feature vector with its type baseline
// into a bounded risk score with a discrete severity level.
package risk

import (
	"fmt"
	"math"
	"strings"

	"github.com/partrace/partrace/internal/logging"
	"github.com/partrace/partrace/internal/models"
)

// Signal weights and caps. Tunable policy constants; the weights must sum
// to 1.0 (enforced by Config.Validate).
const (
	// DefaultTimeWeight scales the time-deviation signal.
	DefaultTimeWeight = 0.45
	// DefaultReworkWeight scales the binary rework signal.
	DefaultReworkWeight = 0.35
	// DefaultStationWeight scales the late-stage-station signal.
	DefaultStationWeight = 0.20
	// DefaultZCap is the z-score at which the time signal saturates at 1.0.
	DefaultZCap = 3.0
)

// Signal names as they appear in RiskResult.Signals.
const (
	SignalTimeDeviation = "time_deviation"
	SignalRework        = "rework"
	SignalStation       = "station_proximity"
)

// Config holds the scorer's tunable policy.
type Config struct {
	TimeWeight    float64
	ReworkWeight  float64
	StationWeight float64
	ZCap          float64

	// CriticalStations are late-stage inspection stations. A part currently
	// at one of them gets the station-proximity boost. Matching is
	// case-insensitive substring, the way the upstream MES names stations
	// (e.g. "INSPECCION_FINAL", "PRUEBA").
	CriticalStations []string
}

// DefaultConfig returns the documented default scoring policy.
func DefaultConfig() Config {
	return Config{
		TimeWeight:    DefaultTimeWeight,
		ReworkWeight:  DefaultReworkWeight,
		StationWeight: DefaultStationWeight,
		ZCap:          DefaultZCap,
		CriticalStations: []string{
			"INSPECCION_FINAL",
			"PRUEBA",
		},
	}
}

// Validate checks that the scoring policy is coherent.
func (c *Config) Validate() error {
	sum := c.TimeWeight + c.ReworkWeight + c.StationWeight
	if math.Abs(sum-1.0) > 1e-9 {
		return models.NewValidationError("scoring weights must sum to 1.0 (got %.4f)", sum)
	}
	if c.TimeWeight < 0 || c.ReworkWeight < 0 || c.StationWeight < 0 {
		return models.NewValidationError("scoring weights must not be negative")
	}
	if c.ZCap <= 0 {
		return models.NewValidationError("z-cap must be positive (got %.2f)", c.ZCap)
	}
	return nil
}

// Scorer computes risk scores. It is stateless between calls; identical
// inputs yield bit-identical results.
type Scorer struct {
	cfg    Config
	logger *logging.Logger
}

// NewScorer creates a scorer with the given policy.
func NewScorer(cfg Config) (*Scorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{
		cfg:    cfg,
		logger: logging.GetLogger("risk"),
	}, nil
}

// Score combines the three signals into a clamped, weighted risk score.
// The explanation field is left empty; the explanation layer fills it in.
//
// The scorer never fails for "no history": a zero standard deviation
// degrades the time signal to zero. It does fail for malformed features.
func (s *Scorer) Score(features models.PartFeatureVector, baseline models.TypeBaseline) (*models.RiskResult, error) {
	if err := features.Validate(); err != nil {
		return nil, err
	}

	timeSignal, timeDetail := s.timeDeviationSignal(features, baseline)
	reworkSignal, reworkDetail := s.reworkSignal(features, baseline)
	stationSignal, stationDetail := s.stationSignal(features)

	score := s.cfg.TimeWeight*timeSignal +
		s.cfg.ReworkWeight*reworkSignal +
		s.cfg.StationWeight*stationSignal
	score = clamp01(score)
	score = math.Round(score*100) / 100

	result := &models.RiskResult{
		Score:    score,
		Severity: SeverityForScore(score),
		Signals: []models.Signal{
			{Name: SignalTimeDeviation, Value: timeSignal, Weight: s.cfg.TimeWeight, Detail: timeDetail},
			{Name: SignalRework, Value: reworkSignal, Weight: s.cfg.ReworkWeight, Detail: reworkDetail},
			{Name: SignalStation, Value: stationSignal, Weight: s.cfg.StationWeight, Detail: stationDetail},
		},
	}

	s.logger.Debug("scored part %s (type %s): score=%.2f severity=%s",
		features.PartID, features.PartType, result.Score, result.Severity)

	return result, nil
}

// timeDeviationSignal maps the z-score of total time against the baseline
// through min(1, z/ZCap). It is clamped to 0 when the standard deviation
// is 0 (insufficient history) or when total time does not exceed the mean.
func (s *Scorer) timeDeviationSignal(features models.PartFeatureVector, baseline models.TypeBaseline) (float64, string) {
	if baseline.StdDevSeconds == 0 {
		return 0, "insufficient history for time deviation"
	}
	if features.TotalSeconds <= baseline.MeanSeconds {
		return 0, fmt.Sprintf("total %.1fs at or below type mean %.1fs", features.TotalSeconds, baseline.MeanSeconds)
	}

	z := (features.TotalSeconds - baseline.MeanSeconds) / baseline.StdDevSeconds
	signal := math.Min(1, z/s.cfg.ZCap)
	detail := fmt.Sprintf("total %.1fs vs mean %.1fs (std %.1fs, z=%.2f)",
		features.TotalSeconds, baseline.MeanSeconds, baseline.StdDevSeconds, z)
	return signal, detail
}

// reworkSignal is binary: any rework materially raises risk.
func (s *Scorer) reworkSignal(features models.PartFeatureVector, baseline models.TypeBaseline) (float64, string) {
	if features.ReworkCount == 0 {
		return 0, "no rework events"
	}
	return 1, fmt.Sprintf("%d rework event(s), type mean %.2f", features.ReworkCount, baseline.MeanRework)
}

// stationSignal boosts risk when the part sits at a late-stage inspection
// station, where cost-of-failure is highest.
func (s *Scorer) stationSignal(features models.PartFeatureVector) (float64, string) {
	station := strings.ToUpper(features.CurrentStation)
	for _, critical := range s.cfg.CriticalStations {
		if critical != "" && strings.Contains(station, strings.ToUpper(critical)) {
			return 1, fmt.Sprintf("at late-stage station %s", features.CurrentStation)
		}
	}
	return 0, fmt.Sprintf("station %s is not late-stage", features.CurrentStation)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
