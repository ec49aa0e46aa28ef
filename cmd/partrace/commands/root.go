package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/partrace/partrace/internal/config"
	"github.com/partrace/partrace/internal/logging"
)

const Version = "0.1.0"

var (
	logLevel   string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "partrace",
	Short: "Partrace - Risk and Anomaly Analysis for Parts Traceability",
	Long: `Partrace analyzes trace events from a manufacturing execution system,
computes failure-risk scores for individual parts, and flags statistical
outliers across part-type populations.`,
	Version: Version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to the engine config YAML (defaults apply when omitted)")

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(anomaliesCmd)
	rootCmd.AddCommand(gendataCmd)
}

// HandleError prints error and exits
func HandleError(err error, msg string) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
		os.Exit(1)
	}
}

// setupLog initializes the logging system from the --log-level flag
func setupLog() error {
	return logging.Initialize(logLevel)
}

// loadConfig resolves the engine config: the --config file when given,
// documented defaults otherwise. The station catalog, when configured,
// extends the critical station set.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.DefaultConfig()
	}

	if err := applyStationCatalog(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyStationCatalog merges critical station IDs from the station
// catalog file into the config.
func applyStationCatalog(cfg *config.Config) error {
	if cfg.StationsPath == "" {
		return nil
	}
	stations, err := config.LoadStations(cfg.StationsPath)
	if err != nil {
		return err
	}
	cfg.CriticalStations = append(cfg.CriticalStations, stations.CriticalIDs()...)
	return nil
}
