package history

import (
	"context"
	"sort"
	"sync"

	"github.com/partrace/partrace/internal/models"
)

// MemoryStore is an in-memory Provider implementation. It backs the CLI
// commands and tests; production deployments plug an external store in
// behind the Provider interface instead.
type MemoryStore struct {
	mu     sync.RWMutex
	events []models.TraceEvent
}

var _ Provider = &MemoryStore{}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Add validates and appends events to the store.
func (s *MemoryStore) Add(events ...models.TraceEvent) error {
	for i := range events {
		if err := events[i].Validate(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, events...)
	return nil
}

// Len returns the number of stored events.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// EventsForPart implements Provider.
func (s *MemoryStore) EventsForPart(ctx context.Context, partID string) ([]models.TraceEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.filter(func(e *models.TraceEvent) bool {
		return e.PartID == partID
	}), nil
}

// EventsForType implements Provider.
func (s *MemoryStore) EventsForType(ctx context.Context, partType, excludePartID string) ([]models.TraceEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.filter(func(e *models.TraceEvent) bool {
		return e.PartType == partType && (excludePartID == "" || e.PartID != excludePartID)
	}), nil
}

// PartTypes implements Provider.
func (s *MemoryStore) PartTypes(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var types []string
	for i := range s.events {
		t := s.events[i].PartType
		if t != "" && !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}
	sort.Strings(types)
	return types, nil
}

// filter returns a snapshot copy of matching events in non-decreasing
// entry-timestamp order. Callers own the returned slice.
func (s *MemoryStore) filter(match func(*models.TraceEvent) bool) []models.TraceEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.TraceEvent
	for i := range s.events {
		if match(&s.events[i]) {
			out = append(out, s.events[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EnteredAt.Before(out[j].EnteredAt)
	})
	return out
}
