// Package models defines the data types flowing through the risk engine:
// trace events read from the upstream store, the derived feature vectors
// and baselines, and the risk/anomaly results handed back to callers.
package models

import (
	"time"
)

// Outcome is the result recorded when a part leaves a station.
type Outcome string

const (
	OutcomeOK     Outcome = "OK"
	OutcomeRework Outcome = "REWORK"
	OutcomeScrap  Outcome = "SCRAP"
)

// TraceEvent records a part's presence at a production station.
// Events are owned by the upstream event store; the engine only reads
// snapshots and never mutates them.
type TraceEvent struct {
	EventID     string     `json:"event_id,omitempty"`
	PartID      string     `json:"part_id"`
	PartType    string     `json:"part_type"`
	Station     string     `json:"station"`
	EnteredAt   time.Time  `json:"entered_at"`
	ExitedAt    *time.Time `json:"exited_at,omitempty"` // nil while the part is still at the station
	Outcome     Outcome    `json:"outcome,omitempty"`
	Observation string     `json:"observation,omitempty"`
}

// Closed reports whether the part has left the station.
func (e *TraceEvent) Closed() bool {
	return e.ExitedAt != nil
}

// Duration returns the time spent at the station, or zero for open events.
func (e *TraceEvent) Duration() time.Duration {
	if e.ExitedAt == nil {
		return 0
	}
	return e.ExitedAt.Sub(e.EnteredAt)
}

// Validate checks structural invariants of a single event.
func (e *TraceEvent) Validate() error {
	if e.PartID == "" {
		return NewValidationError("trace event: part_id must not be empty")
	}
	if e.Station == "" {
		return NewValidationError("trace event for part %s: station must not be empty", e.PartID)
	}
	if e.EnteredAt.IsZero() {
		return NewValidationError("trace event for part %s: entered_at must be set", e.PartID)
	}
	if e.ExitedAt != nil && e.ExitedAt.Before(e.EnteredAt) {
		return NewValidationError("trace event for part %s at %s: exited_at precedes entered_at", e.PartID, e.Station)
	}
	switch e.Outcome {
	case "", OutcomeOK, OutcomeRework, OutcomeScrap:
	default:
		return NewValidationError("trace event for part %s: unknown outcome %q", e.PartID, e.Outcome)
	}
	return nil
}
