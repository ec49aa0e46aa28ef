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
	analyzeEventsPath string
	analyzeDemoData   bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze PART_ID",
	Short: "Analyze failure risk for a single part",
	Args:  cobra.ExactArgs(1),
	Run:   runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeEventsPath, "events", "", "Path to a JSON file of trace events to load")
	analyzeCmd.Flags().BoolVar(&analyzeDemoData, "demo", false, "Load built-in demo trace events")
}

func runAnalyze(cmd *cobra.Command, args []string) {
	if err := setupLog(); err != nil {
		HandleError(err, "Failed to setup logging")
	}

	cfg, err := loadConfig()
	if err != nil {
		HandleError(err, "Failed to load configuration")
	}

	store, err := loadStore(analyzeEventsPath, analyzeDemoData)
	if err != nil {
		HandleError(err, "Failed to load trace history")
	}

	ctx := context.Background()
	eng, err := engine.New(ctx, cfg, store, metrics.NewMetrics(prometheus.NewRegistry()))
	if err != nil {
		HandleError(err, "Failed to build analysis engine")
	}

	result, err := eng.AnalyzeRisk(ctx, args[0])
	if err != nil {
		HandleError(err, "Risk analysis failed")
	}

	if err := api.WriteJSON(os.Stdout, api.RiskResponse{PartID: args[0], RiskResult: *result}); err != nil {
		HandleError(err, "Failed to write result")
	}
}
