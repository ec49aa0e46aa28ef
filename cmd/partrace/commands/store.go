package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/partrace/partrace/internal/demo"
	"github.com/partrace/partrace/internal/history"
	"github.com/partrace/partrace/internal/models"
)

// loadStore builds the in-memory trace history from a JSON event file, or
// from the built-in demo fixtures when demoData is set.
func loadStore(eventsPath string, demoData bool) (*history.MemoryStore, error) {
	store := history.NewMemoryStore()

	switch {
	case eventsPath != "":
		events, err := readEventsFile(eventsPath)
		if err != nil {
			return nil, err
		}
		if err := store.Add(events...); err != nil {
			return nil, err
		}
	case demoData:
		if err := store.Add(demo.GetDemoEvents(time.Now().Add(-24 * time.Hour).Unix())...); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("no trace history source: pass --events FILE or --demo")
	}

	return store, nil
}

func readEventsFile(path string) ([]models.TraceEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read events file: %w", err)
	}

	var events []models.TraceEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("failed to parse events file %s: %w", path, err)
	}
	return events, nil
}
