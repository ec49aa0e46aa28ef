package models

// PartFeatureVector is the per-part summary the scorer and anomaly
// detector operate on. It is derived fresh from trace history for each
// request and never persisted.
type PartFeatureVector struct {
	PartID         string  `json:"part_id"`
	PartType       string  `json:"part_type"`
	ReworkCount    int     `json:"rework_count"`
	TotalSeconds   float64 `json:"total_seconds"`
	CurrentStation string  `json:"current_station"`
}

// Validate rejects malformed feature vectors before scoring.
func (f *PartFeatureVector) Validate() error {
	if f.PartID == "" {
		return NewValidationError("feature vector: part_id must not be empty")
	}
	if f.PartType == "" {
		return NewValidationError("feature vector for part %s: part_type must not be empty", f.PartID)
	}
	if f.TotalSeconds < 0 {
		return NewValidationError("feature vector for part %s: total time must not be negative (got %.2f)", f.PartID, f.TotalSeconds)
	}
	if f.ReworkCount < 0 {
		return NewValidationError("feature vector for part %s: rework count must not be negative (got %d)", f.PartID, f.ReworkCount)
	}
	return nil
}
