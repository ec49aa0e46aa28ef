// Package history defines the engine's read-only view of trace event
// history and the derivation of per-part feature vectors from it.
package history

import (
	"context"
	"errors"

	"github.com/partrace/partrace/internal/models"
)

// ErrUnavailable indicates the upstream trace history store could not be
// reached. It is surfaced to the caller; the engine never guesses at
// missing history.
var ErrUnavailable = errors.New("trace history unavailable")

// Provider supplies ordered trace event history. Implementations must
// return events in non-decreasing entry-timestamp order and an empty slice
// for unknown identifiers (an unknown part is not an error).
type Provider interface {
	// EventsForPart returns the full event history of a single part.
	EventsForPart(ctx context.Context, partID string) ([]models.TraceEvent, error)

	// EventsForType returns the event history of all parts of a type.
	// When excludePartID is non-empty, that part's events are omitted so a
	// candidate part cannot influence its own baseline.
	EventsForType(ctx context.Context, partType, excludePartID string) ([]models.TraceEvent, error)

	// PartTypes returns all part types present in the store, sorted
	// ascending for deterministic iteration.
	PartTypes(ctx context.Context) ([]string, error)
}
