// Package anomaly scans a population of part feature vectors for
// statistical outliers against their type baseline.
package anomaly

import (
	"math"
	"sort"

	"github.com/partrace/partrace/internal/logging"
	"github.com/partrace/partrace/internal/models"
)

// Detection thresholds. Tunable policy constants.
const (
	// DefaultTimeZThreshold flags a part whose |z| meets or exceeds this
	// many standard deviations from the type mean.
	DefaultTimeZThreshold = 2.0
	// DefaultReworkMargin is how far above the type's mean rework count a
	// part must sit to be flagged.
	DefaultReworkMargin = 1.0
	// DefaultMinRework is the absolute rework floor below which a part is
	// never a rework outlier, regardless of the type mean.
	DefaultMinRework = 2
)

// Config holds the detector's tunable policy.
type Config struct {
	TimeZThreshold float64
	ReworkMargin   float64
	MinRework      int
}

// DefaultConfig returns the documented default detection policy.
func DefaultConfig() Config {
	return Config{
		TimeZThreshold: DefaultTimeZThreshold,
		ReworkMargin:   DefaultReworkMargin,
		MinRework:      DefaultMinRework,
	}
}

// Validate checks that the detection policy is coherent.
func (c *Config) Validate() error {
	if c.TimeZThreshold <= 0 {
		return models.NewValidationError("time z-threshold must be positive (got %.2f)", c.TimeZThreshold)
	}
	if c.ReworkMargin < 0 {
		return models.NewValidationError("rework margin must not be negative (got %.2f)", c.ReworkMargin)
	}
	if c.MinRework < 1 {
		return models.NewValidationError("minimum rework count must be at least 1 (got %d)", c.MinRework)
	}
	return nil
}

// Detector flags statistical outliers. Stateless and deterministic: the
// same population and baseline always produce the same flags in the same
// order.
type Detector struct {
	cfg    Config
	logger *logging.Logger
}

// NewDetector creates a detector with the given policy.
func NewDetector(cfg Config) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Detector{
		cfg:    cfg,
		logger: logging.GetLogger("anomaly"),
	}, nil
}

// Detect scans the population and returns flags ordered by descending
// deviation magnitude, ties broken by part ID ascending. A part may carry
// both a TIME_OUTLIER and a REWORK_OUTLIER flag. The returned slice is
// finite and restartable; callers may range over it any number of times.
func (d *Detector) Detect(population []models.PartFeatureVector, baseline models.TypeBaseline) []models.AnomalyFlag {
	flags := make([]models.AnomalyFlag, 0)

	for i := range population {
		part := &population[i]

		// Time outlier: |z| at or beyond the threshold. A zero standard
		// deviation means deviation is never significant.
		if baseline.StdDevSeconds > 0 {
			z := (part.TotalSeconds - baseline.MeanSeconds) / baseline.StdDevSeconds
			if math.Abs(z) >= d.cfg.TimeZThreshold {
				flags = append(flags, models.AnomalyFlag{
					PartID:    part.PartID,
					Reason:    models.ReasonTimeOutlier,
					Magnitude: z,
					Station:   part.CurrentStation,
				})
			}
		}

		// Rework outlier: count exceeds the type mean by more than the
		// margin, with an absolute floor so a population of zeros does not
		// flag every single rework.
		excess := float64(part.ReworkCount) - baseline.MeanRework
		if excess > d.cfg.ReworkMargin && part.ReworkCount >= d.cfg.MinRework {
			flags = append(flags, models.AnomalyFlag{
				PartID:    part.PartID,
				Reason:    models.ReasonReworkOutlier,
				Magnitude: excess,
				Station:   part.CurrentStation,
			})
		}
	}

	SortFlags(flags)

	d.logger.Debug("detected %d anomalies among %d parts of type %s",
		len(flags), len(population), baseline.PartType)
	return flags
}

// SortFlags orders flags by descending |magnitude|, ties broken by part ID
// ascending, then reason, for reproducible output.
func SortFlags(flags []models.AnomalyFlag) {
	sort.SliceStable(flags, func(i, j int) bool {
		mi, mj := math.Abs(flags[i].Magnitude), math.Abs(flags[j].Magnitude)
		if mi != mj {
			return mi > mj
		}
		if flags[i].PartID != flags[j].PartID {
			return flags[i].PartID < flags[j].PartID
		}
		return flags[i].Reason < flags[j].Reason
	})
}
