// Package demo generates deterministic trace-event fixtures for local
// exploration of the risk engine without a live MES connection.
package demo

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/partrace/partrace/internal/models"
)

// GetDemoEvents returns a set of demo trace events showcasing the engine's
// detection scenarios: stable populations, a slow outlier, a rework loop
// and a part still sitting at final inspection.
func GetDemoEvents(startUnixTimestamp int64) []models.TraceEvent {
	startTime := time.Unix(startUnixTimestamp, 0).UTC()
	var events []models.TraceEvent

	// Scenario 1: a stable X1 population that defines the baseline.
	events = append(events, createStablePopulation(startTime, "X1", 8, 900)...)

	// Scenario 2: an X1 part far above the population cycle time.
	events = append(events, createSlowPart(startTime, "PZA-1100", "X1", 2400)...)

	// Scenario 3: an X2 part bouncing through rework at the test station.
	events = append(events, createStablePopulation(startTime, "X2", 6, 700)...)
	events = append(events, createReworkLoop(startTime, "PZA-2100", "X2")...)

	// Scenario 4: an X1 part still open at final inspection with one
	// prior rework, the high-risk shape supervisors care about.
	events = append(events, createOpenAtInspection(startTime, "PZA-1200", "X1")...)

	// Scenario 5: a Y1 population too small for outlier detection.
	events = append(events, createStablePopulation(startTime, "Y1", 1, 1100)...)

	return events
}

// demoStations is a typical routing for a machined part.
var demoStations = []string{"CORTE", "MECANIZADO", "SOLDADURA", "PINTURA", "PRUEBA", "INSPECCION_FINAL"}

// createStablePopulation emits count fully-routed parts of the given type
// whose total cycle time hovers around totalSeconds.
func createStablePopulation(startTime time.Time, partType string, count, totalSeconds int) []models.TraceEvent {
	var events []models.TraceEvent

	for i := 0; i < count; i++ {
		partID := fmt.Sprintf("PZA-%s-%04d", partType, i+1)
		// Small fixed stagger keeps parts distinct but unflagged.
		jitter := (i%3 - 1) * 10
		events = append(events, routeThroughStations(startTime, partID, partType, totalSeconds+jitter)...)
		startTime = startTime.Add(15 * time.Minute)
	}

	return events
}

// routeThroughStations walks a part through the full demo routing,
// splitting the total cycle time evenly across stations.
func routeThroughStations(startTime time.Time, partID, partType string, totalSeconds int) []models.TraceEvent {
	var events []models.TraceEvent

	perStation := totalSeconds / len(demoStations)
	cursor := startTime
	for _, station := range demoStations {
		exited := cursor.Add(time.Duration(perStation) * time.Second)
		events = append(events, models.TraceEvent{
			EventID:   uuid.NewString(),
			PartID:    partID,
			PartType:  partType,
			Station:   station,
			EnteredAt: cursor,
			ExitedAt:  &exited,
			Outcome:   models.OutcomeOK,
		})
		cursor = exited.Add(time.Minute)
	}

	return events
}

// createSlowPart emits a part whose total cycle time dwarfs its peers.
func createSlowPart(startTime time.Time, partID, partType string, totalSeconds int) []models.TraceEvent {
	events := routeThroughStations(startTime.Add(2*time.Hour), partID, partType, totalSeconds)
	events[len(events)-1].Observation = "retraso por falta de material"
	return events
}

// createReworkLoop emits a part that fails twice at the test station
// before passing.
func createReworkLoop(startTime time.Time, partID, partType string) []models.TraceEvent {
	var events []models.TraceEvent
	cursor := startTime.Add(3 * time.Hour)

	for _, station := range []string{"CORTE", "MECANIZADO", "SOLDADURA"} {
		exited := cursor.Add(2 * time.Minute)
		events = append(events, models.TraceEvent{
			EventID:   uuid.NewString(),
			PartID:    partID,
			PartType:  partType,
			Station:   station,
			EnteredAt: cursor,
			ExitedAt:  &exited,
			Outcome:   models.OutcomeOK,
		})
		cursor = exited.Add(time.Minute)
	}

	for i := 0; i < 2; i++ {
		exited := cursor.Add(4 * time.Minute)
		events = append(events, models.TraceEvent{
			EventID:     uuid.NewString(),
			PartID:      partID,
			PartType:    partType,
			Station:     "PRUEBA",
			EnteredAt:   cursor,
			ExitedAt:    &exited,
			Outcome:     models.OutcomeRework,
			Observation: "falla en prueba funcional",
		})
		cursor = exited.Add(time.Minute)
	}

	exited := cursor.Add(4 * time.Minute)
	events = append(events, models.TraceEvent{
		EventID:   uuid.NewString(),
		PartID:    partID,
		PartType:  partType,
		Station:   "PRUEBA",
		EnteredAt: cursor,
		ExitedAt:  &exited,
		Outcome:   models.OutcomeOK,
	})

	return events
}

// createOpenAtInspection emits a part with one rework that is still
// sitting at final inspection.
func createOpenAtInspection(startTime time.Time, partID, partType string) []models.TraceEvent {
	var events []models.TraceEvent
	cursor := startTime.Add(4 * time.Hour)

	for _, station := range []string{"CORTE", "MECANIZADO", "SOLDADURA", "PINTURA"} {
		outcome := models.OutcomeOK
		if station == "SOLDADURA" {
			outcome = models.OutcomeRework
		}
		exited := cursor.Add(3 * time.Minute)
		events = append(events, models.TraceEvent{
			EventID:   uuid.NewString(),
			PartID:    partID,
			PartType:  partType,
			Station:   station,
			EnteredAt: cursor,
			ExitedAt:  &exited,
			Outcome:   outcome,
		})
		cursor = exited.Add(time.Minute)
	}

	events = append(events, models.TraceEvent{
		EventID:   uuid.NewString(),
		PartID:    partID,
		PartType:  partType,
		Station:   "INSPECCION_FINAL",
		EnteredAt: cursor,
	})

	return events
}
