package commands

import (
	"context"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/partrace/partrace/internal/api"
	"github.com/partrace/partrace/internal/engine"
	"github.com/partrace/partrace/internal/metrics"
)

var (
	anomaliesEventsPath string
	anomaliesDemoData   bool
	anomaliesPartType   string
)

var anomaliesCmd = &cobra.Command{
	Use:   "anomalies",
	Short: "Scan part-type populations for statistical outliers",
	Run:   runAnomalies,
}

func init() {
	anomaliesCmd.Flags().StringVar(&anomaliesEventsPath, "events", "", "Path to a JSON file of trace events to load")
	anomaliesCmd.Flags().BoolVar(&anomaliesDemoData, "demo", false, "Load built-in demo trace events")
	anomaliesCmd.Flags().StringVar(&anomaliesPartType, "part-type", "", "Limit the scan to one part type (default: all types)")
}

func runAnomalies(cmd *cobra.Command, args []string) {
	if err := setupLog(); err != nil {
		HandleError(err, "Failed to setup logging")
	}

	cfg, err := loadConfig()
	if err != nil {
		HandleError(err, "Failed to load configuration")
	}

	store, err := loadStore(anomaliesEventsPath, anomaliesDemoData)
	if err != nil {
		HandleError(err, "Failed to load trace history")
	}

	ctx := context.Background()
	eng, err := engine.New(ctx, cfg, store, metrics.NewMetrics(prometheus.NewRegistry()))
	if err != nil {
		HandleError(err, "Failed to build analysis engine")
	}

	flags, err := eng.FindAnomalies(ctx, anomaliesPartType)
	if err != nil {
		HandleError(err, "Anomaly scan failed")
	}

	response := api.AnomaliesResponse{
		Anomalies: flags,
		Count:     len(flags),
		PartType:  anomaliesPartType,
	}
	if err := api.WriteJSON(os.Stdout, response); err != nil {
		HandleError(err, "Failed to write result")
	}
}
