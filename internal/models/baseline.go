package models

// Default baseline used when a part type has no completed history at all.
// The zero standard deviation forces the time-deviation signal to zero, so
// an unknown type can never produce a time-driven high risk.
const (
	// DefaultBaselineMeanSeconds is the assumed mean cycle time (10 minutes)
	// for types without history.
	DefaultBaselineMeanSeconds = 600.0
)

// TypeBaseline is the statistical summary of historical behavior for one
// part type. It is recomputable from history at any time; caching it is an
// optimization, never a correctness requirement.
type TypeBaseline struct {
	PartType      string  `json:"part_type"`
	MeanSeconds   float64 `json:"mean_seconds"`
	StdDevSeconds float64 `json:"stddev_seconds"`
	MeanRework    float64 `json:"mean_rework"`
	SampleSize    int     `json:"sample_size"`
}

// DefaultBaseline returns the fixed fallback baseline for a part type with
// zero completed parts in history.
func DefaultBaseline(partType string) TypeBaseline {
	return TypeBaseline{
		PartType:      partType,
		MeanSeconds:   DefaultBaselineMeanSeconds,
		StdDevSeconds: 0,
		MeanRework:    0,
		SampleSize:    0,
	}
}

// Valid reports whether the baseline was computed from at least one
// completed part.
func (b *TypeBaseline) Valid() bool {
	return b.SampleSize >= 1
}
