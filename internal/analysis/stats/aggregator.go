// Package stats computes per-part-type baseline statistics from
// historical trace events. Baselines are the reference point for all
// deviation scoring downstream.
package stats

import (
	"math"

	"github.com/partrace/partrace/internal/history"
	"github.com/partrace/partrace/internal/logging"
	"github.com/partrace/partrace/internal/models"
)

// Aggregator computes TypeBaselines. It is stateless and safe for
// concurrent use; the same input set always yields the same baseline.
type Aggregator struct {
	logger *logging.Logger
}

// New creates a new Aggregator.
func New() *Aggregator {
	return &Aggregator{
		logger: logging.GetLogger("stats"),
	}
}

// Baseline aggregates mean and population standard deviation of per-part
// total cycle time, and mean rework count, across all parts in history.
//
// Parts with no closed events are excluded from the sample. With fewer
// than 2 completed parts the standard deviation is reported as 0, which
// downstream scorers must treat as "deviation not significant". With zero
// completed parts the fixed default baseline is returned instead of
// dividing by zero.
func (a *Aggregator) Baseline(partType string, events []models.TraceEvent) models.TypeBaseline {
	// BuildPopulation already drops parts with no closed events; only
	// parts with a measurable total time reach the sample.
	population := history.BuildPopulation(events)

	if len(population) == 0 {
		a.logger.Debug("no completed parts for type %s, using default baseline", partType)
		return models.DefaultBaseline(partType)
	}

	totals := make([]float64, 0, len(population))
	var reworkSum float64
	for i := range population {
		totals = append(totals, population[i].TotalSeconds)
		reworkSum += float64(population[i].ReworkCount)
	}

	mean := meanOf(totals)

	stddev := 0.0
	if len(totals) >= 2 {
		stddev = populationStdDev(totals, mean)
	}

	return models.TypeBaseline{
		PartType:      partType,
		MeanSeconds:   mean,
		StdDevSeconds: stddev,
		MeanRework:    reworkSum / float64(len(totals)),
		SampleSize:    len(totals),
	}
}

func meanOf(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func populationStdDev(values []float64, mean float64) float64 {
	var sumSq float64
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}
