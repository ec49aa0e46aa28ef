package history

import (
	"sort"

	"github.com/partrace/partrace/internal/models"
)

// BuildFeatures derives a part's feature vector from its ordered event
// history. Open events (no exit timestamp) contribute no elapsed time but
// their station still counts as the part's current location.
func BuildFeatures(partID string, events []models.TraceEvent) (models.PartFeatureVector, error) {
	features := models.PartFeatureVector{PartID: partID}

	for i := range events {
		e := &events[i]
		if e.PartID != partID {
			continue
		}
		if err := e.Validate(); err != nil {
			return models.PartFeatureVector{}, err
		}

		features.PartType = e.PartType
		features.CurrentStation = e.Station
		if e.Closed() {
			features.TotalSeconds += e.Duration().Seconds()
		}
		if e.Outcome == models.OutcomeRework {
			features.ReworkCount++
		}
	}

	if err := features.Validate(); err != nil {
		return models.PartFeatureVector{}, err
	}
	return features, nil
}

// BuildPopulation groups a type's event history by part and derives one
// feature vector per part, sorted by part ID for deterministic scans.
// Parts whose history fails validation are skipped rather than failing the
// whole population, as are parts with no closed events: an in-flight part
// has no measurable cycle time yet.
func BuildPopulation(events []models.TraceEvent) []models.PartFeatureVector {
	byPart := make(map[string][]models.TraceEvent)
	hasClosed := make(map[string]bool)
	for i := range events {
		byPart[events[i].PartID] = append(byPart[events[i].PartID], events[i])
		if events[i].Closed() {
			hasClosed[events[i].PartID] = true
		}
	}

	partIDs := make([]string, 0, len(byPart))
	for id := range byPart {
		partIDs = append(partIDs, id)
	}
	sort.Strings(partIDs)

	population := make([]models.PartFeatureVector, 0, len(partIDs))
	for _, id := range partIDs {
		if !hasClosed[id] {
			continue
		}
		features, err := BuildFeatures(id, byPart[id])
		if err != nil {
			continue
		}
		population = append(population, features)
	}
	return population
}
