// Package config holds the engine's tunable policy (weights, thresholds,
// explainer credentials, station catalog) and its YAML loading. All
// configuration is passed explicitly into components, never read from
// ambient process state, so the same engine can run under multiple weight
// configurations in tests.
package config

import (
	"math"
	"os"

	"github.com/partrace/partrace/internal/analysis/anomaly"
	"github.com/partrace/partrace/internal/analysis/risk"
)

// SchemaVersion is the supported engine config schema.
const SchemaVersion = "v1"

// Environment variables consulted for explainer credentials when the
// config file leaves api_key empty.
const (
	EnvGeminiAPIKey    = "GEMINI_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
)

// Config is the full engine configuration.
//
// Example YAML:
//
//	schema_version: v1
//	api_port: 8080
//	log_level: info
//	stations_path: stations.yaml
//	scoring:
//	  time_weight: 0.45
//	  rework_weight: 0.35
//	  station_weight: 0.20
//	  z_cap: 3.0
//	anomaly:
//	  time_z_threshold: 2.0
//	  rework_margin: 1.0
//	  min_rework: 2
//	baseline_cache:
//	  ttl_seconds: 30
//	  max_entries: 256
//	explainer:
//	  provider: gemini
//	  model: gemini-2.5-flash
//	  timeout_seconds: 5
type Config struct {
	SchemaVersion string `yaml:"schema_version"`
	APIPort       int    `yaml:"api_port"`
	LogLevel      string `yaml:"log_level"`

	// StationsPath points at the station catalog YAML (optional).
	StationsPath string `yaml:"stations_path"`

	Scoring       ScoringConfig   `yaml:"scoring"`
	Anomaly       AnomalyConfig   `yaml:"anomaly"`
	BaselineCache CacheConfig     `yaml:"baseline_cache"`
	Explainer     ExplainerConfig `yaml:"explainer"`

	// CriticalStations extends the default late-stage inspection set.
	CriticalStations []string `yaml:"critical_stations"`

	Tracing TracingConfig `yaml:"tracing"`
}

// ScoringConfig tunes the risk scorer. Weights must sum to 1.0.
type ScoringConfig struct {
	TimeWeight    float64 `yaml:"time_weight"`
	ReworkWeight  float64 `yaml:"rework_weight"`
	StationWeight float64 `yaml:"station_weight"`
	ZCap          float64 `yaml:"z_cap"`
}

// AnomalyConfig tunes the outlier detector.
type AnomalyConfig struct {
	TimeZThreshold float64 `yaml:"time_z_threshold"`
	ReworkMargin   float64 `yaml:"rework_margin"`
	MinRework      int     `yaml:"min_rework"`
}

// CacheConfig tunes the per-type baseline cache. A TTL of 0 disables it.
type CacheConfig struct {
	TTLSeconds int `yaml:"ttl_seconds"`
	MaxEntries int `yaml:"max_entries"`
}

// ExplainerConfig selects and credentials the generative explainer.
// Provider may be "gemini", "anthropic" or empty (local only). When
// APIKey is empty the provider-specific environment variable is consulted;
// if that is empty too, the generative path is disabled.
type ExplainerConfig struct {
	Provider       string `yaml:"provider"`
	Model          string `yaml:"model"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// TracingConfig enables OTLP trace export.
type TracingConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"`
	TLSCAPath   string `yaml:"tls_ca_path"`
	TLSInsecure bool   `yaml:"tls_insecure"`
}

// DefaultConfig returns the documented defaults. The scoring and anomaly
// values mirror the named constants in the analysis packages.
func DefaultConfig() *Config {
	return &Config{
		SchemaVersion: SchemaVersion,
		APIPort:       8080,
		LogLevel:      "info",
		Scoring: ScoringConfig{
			TimeWeight:    risk.DefaultTimeWeight,
			ReworkWeight:  risk.DefaultReworkWeight,
			StationWeight: risk.DefaultStationWeight,
			ZCap:          risk.DefaultZCap,
		},
		Anomaly: AnomalyConfig{
			TimeZThreshold: anomaly.DefaultTimeZThreshold,
			ReworkMargin:   anomaly.DefaultReworkMargin,
			MinRework:      anomaly.DefaultMinRework,
		},
		BaselineCache: CacheConfig{
			TTLSeconds: 30,
			MaxEntries: 256,
		},
		Explainer: ExplainerConfig{
			TimeoutSeconds: 5,
		},
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.SchemaVersion != SchemaVersion {
		return NewConfigError("unsupported schema_version: %q (expected %q)", c.SchemaVersion, SchemaVersion)
	}

	if c.APIPort < 1 || c.APIPort > 65535 {
		return NewConfigError("api_port must be between 1 and 65535")
	}

	weightSum := c.Scoring.TimeWeight + c.Scoring.ReworkWeight + c.Scoring.StationWeight
	if math.Abs(weightSum-1.0) > 1e-9 {
		return NewConfigError("scoring weights must sum to 1.0 (got %.4f)", weightSum)
	}
	if c.Scoring.ZCap <= 0 {
		return NewConfigError("scoring.z_cap must be positive")
	}

	if c.Anomaly.TimeZThreshold <= 0 {
		return NewConfigError("anomaly.time_z_threshold must be positive")
	}
	if c.Anomaly.ReworkMargin < 0 {
		return NewConfigError("anomaly.rework_margin must not be negative")
	}
	if c.Anomaly.MinRework < 1 {
		return NewConfigError("anomaly.min_rework must be at least 1")
	}

	if c.BaselineCache.TTLSeconds < 0 {
		return NewConfigError("baseline_cache.ttl_seconds must not be negative")
	}
	if c.BaselineCache.TTLSeconds > 0 && c.BaselineCache.MaxEntries < 1 {
		return NewConfigError("baseline_cache.max_entries must be at least 1 when the cache is enabled")
	}

	switch c.Explainer.Provider {
	case "", "gemini", "anthropic":
	default:
		return NewConfigError("explainer.provider must be empty, \"gemini\" or \"anthropic\" (got %q)", c.Explainer.Provider)
	}
	if c.Explainer.TimeoutSeconds < 0 {
		return NewConfigError("explainer.timeout_seconds must not be negative")
	}

	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		return NewConfigError("tracing.endpoint must be set when tracing is enabled")
	}

	return nil
}

// ExplainerAPIKey resolves the generative credential: explicit config
// value first, then the provider's environment variable. Empty means the
// generative path is unavailable.
func (c *Config) ExplainerAPIKey() string {
	if c.Explainer.APIKey != "" {
		return c.Explainer.APIKey
	}
	switch c.Explainer.Provider {
	case "gemini":
		return os.Getenv(EnvGeminiAPIKey)
	case "anthropic":
		return os.Getenv(EnvAnthropicAPIKey)
	}
	return ""
}
