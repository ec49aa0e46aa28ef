package models

// AnomalyReason classifies why a part was flagged as an outlier.
type AnomalyReason string

const (
	ReasonTimeOutlier   AnomalyReason = "TIME_OUTLIER"
	ReasonReworkOutlier AnomalyReason = "REWORK_OUTLIER"
)

// AnomalyFlag marks one part as statistically anomalous within its part
// type's population. A single part may carry multiple flags with different
// reasons.
type AnomalyFlag struct {
	PartID    string        `json:"part_id"`
	Reason    AnomalyReason `json:"reason"`
	Magnitude float64       `json:"magnitude"` // z-score for time, excess over mean for rework
	Station   string        `json:"station"`
}
