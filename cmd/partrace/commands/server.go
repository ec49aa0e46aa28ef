package commands

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/partrace/partrace/internal/api"
	"github.com/partrace/partrace/internal/apiserver"
	"github.com/partrace/partrace/internal/config"
	"github.com/partrace/partrace/internal/engine"
	"github.com/partrace/partrace/internal/lifecycle"
	"github.com/partrace/partrace/internal/logging"
	"github.com/partrace/partrace/internal/metrics"
	"github.com/partrace/partrace/internal/models"
	"github.com/partrace/partrace/internal/tracing"
)

var (
	apiPort    int
	eventsPath string
	demoData   bool
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the Partrace API server",
	Long: `Start the Partrace server which loads trace history, serves risk
analysis and anomaly scan endpoints, and reloads its configuration when
the config file changes.`,
	Run: runServer,
}

func init() {
	serverCmd.Flags().IntVar(&apiPort, "api-port", 0, "Port the API server listens on (overrides config)")
	serverCmd.Flags().StringVar(&eventsPath, "events", "", "Path to a JSON file of trace events to load")
	serverCmd.Flags().BoolVar(&demoData, "demo", false, "Load built-in demo trace events")
}

// reloadableAnalyzer swaps the engine atomically on config reload so
// in-flight requests keep the engine they started with.
type reloadableAnalyzer struct {
	engine atomic.Pointer[engine.Engine]
}

func (ra *reloadableAnalyzer) AnalyzeRisk(ctx context.Context, partID string) (*models.RiskResult, error) {
	return ra.engine.Load().AnalyzeRisk(ctx, partID)
}

func (ra *reloadableAnalyzer) FindAnomalies(ctx context.Context, partType string) ([]models.AnomalyFlag, error) {
	return ra.engine.Load().FindAnomalies(ctx, partType)
}

var _ api.RiskAnalyzer = &reloadableAnalyzer{}

func runServer(cmd *cobra.Command, args []string) {
	if err := setupLog(); err != nil {
		HandleError(err, "Failed to setup logging")
	}
	logger := logging.GetLogger("server")

	logger.Info("Starting Partrace v%s", Version)

	cfg, err := loadConfig()
	if err != nil {
		HandleError(err, "Failed to load configuration")
	}
	if apiPort != 0 {
		cfg.APIPort = apiPort
	}

	store, err := loadStore(eventsPath, demoData)
	if err != nil {
		HandleError(err, "Failed to load trace history")
	}
	logger.Info("Trace history loaded: %d events", store.Len())

	ctx := context.Background()

	registry := prometheus.NewRegistry()
	engineMetrics := metrics.NewMetrics(registry)

	analyzer := &reloadableAnalyzer{}
	eng, err := engine.New(ctx, cfg, store, engineMetrics)
	if err != nil {
		HandleError(err, "Failed to build analysis engine")
	}
	analyzer.engine.Store(eng)

	tracingProvider, err := tracing.NewProvider(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		TLSCAPath:   cfg.Tracing.TLSCAPath,
		TLSInsecure: cfg.Tracing.TLSInsecure,
	})
	if err != nil {
		logger.Warn("Failed to initialize tracing (continuing without tracing): %v", err)
		tracingProvider = nil
	}

	manager := lifecycle.NewManager()
	var serverTracing apiserver.TracingProvider
	if tracingProvider != nil {
		serverTracing = tracingProvider
		if err := manager.Register(tracingProvider); err != nil {
			HandleError(err, "Failed to register tracing provider")
		}
	}

	server := apiserver.New(cfg.APIPort, analyzer, registry, &apiserver.NoOpReadinessChecker{}, serverTracing)
	if err := manager.Register(server); err != nil {
		HandleError(err, "Failed to register API server")
	}

	// Watch the config file and rebuild the engine on change. The HTTP
	// server keeps its port; only analysis parameters reload live.
	if configPath != "" {
		watcher, err := config.NewWatcher(config.WatcherOptions{FilePath: configPath}, func(newCfg *config.Config) error {
			if err := applyStationCatalog(newCfg); err != nil {
				return err
			}
			newEngine, err := engine.New(ctx, newCfg, store, engineMetrics)
			if err != nil {
				return err
			}
			analyzer.engine.Store(newEngine)
			logger.Info("Configuration reloaded, analysis engine rebuilt")
			return nil
		})
		if err != nil {
			HandleError(err, "Failed to create config watcher")
		}
		if err := manager.Register(&watcherComponent{watcher}); err != nil {
			HandleError(err, "Failed to register config watcher")
		}
	}

	if err := manager.Start(ctx); err != nil {
		HandleError(err, "Failed to start components")
	}

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	logger.Info("Shutdown signal received, gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := manager.Stop(shutdownCtx); err != nil {
		logger.Error("Error during shutdown: %v", err)
	}

	logger.Info("Shutdown complete")
}

// watcherComponent adapts the config watcher to the lifecycle interface.
type watcherComponent struct {
	watcher *config.Watcher
}

func (wc *watcherComponent) Start(ctx context.Context) error {
	return wc.watcher.Start(ctx)
}

func (wc *watcherComponent) Stop(ctx context.Context) error {
	wc.watcher.Stop()
	return nil
}

func (wc *watcherComponent) Name() string {
	return "Config Watcher"
}
