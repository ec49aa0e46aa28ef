package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTempYAML writes content to a temp file and returns its path.
func writeTempYAML(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestLoadAppliesOverridesOnTopOfDefaults(t *testing.T) {
	path := writeTempYAML(t, "engine.yaml", `
schema_version: v1
api_port: 9090
scoring:
  time_weight: 0.5
  rework_weight: 0.3
  station_weight: 0.2
  z_cap: 2.5
critical_stations:
  - ENSAMBLE_FINAL
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.APIPort)
	assert.Equal(t, 0.5, cfg.Scoring.TimeWeight)
	assert.Equal(t, 2.5, cfg.Scoring.ZCap)
	assert.Equal(t, []string{"ENSAMBLE_FINAL"}, cfg.CriticalStations)

	// Untouched sections keep their defaults.
	assert.Equal(t, 2.0, cfg.Anomaly.TimeZThreshold)
	assert.Equal(t, 30, cfg.BaselineCache.TTLSeconds)
}

func TestLoadRejectsBadSchemaVersion(t *testing.T) {
	path := writeTempYAML(t, "engine.yaml", `
schema_version: v999
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema_version")
}

func TestLoadRejectsBadWeights(t *testing.T) {
	path := writeTempYAML(t, "engine.yaml", `
schema_version: v1
scoring:
  time_weight: 0.9
  rework_weight: 0.9
  station_weight: 0.9
  z_cap: 3.0
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weights")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}, wantErr: false},
		{name: "bad port", mutate: func(c *Config) { c.APIPort = 0 }, wantErr: true},
		{name: "bad z-cap", mutate: func(c *Config) { c.Scoring.ZCap = -1 }, wantErr: true},
		{name: "bad z-threshold", mutate: func(c *Config) { c.Anomaly.TimeZThreshold = 0 }, wantErr: true},
		{name: "negative cache ttl", mutate: func(c *Config) { c.BaselineCache.TTLSeconds = -1 }, wantErr: true},
		{
			name:    "cache enabled without capacity",
			mutate:  func(c *Config) { c.BaselineCache.MaxEntries = 0 },
			wantErr: true,
		},
		{name: "unknown explainer", mutate: func(c *Config) { c.Explainer.Provider = "watson" }, wantErr: true},
		{name: "gemini explainer", mutate: func(c *Config) { c.Explainer.Provider = "gemini" }, wantErr: false},
		{
			name:    "tracing without endpoint",
			mutate:  func(c *Config) { c.Tracing.Enabled = true },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, IsConfigError(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExplainerAPIKeyResolution(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Explainer.Provider = "gemini"

	t.Setenv(EnvGeminiAPIKey, "env-key")
	assert.Equal(t, "env-key", cfg.ExplainerAPIKey())

	cfg.Explainer.APIKey = "config-key"
	assert.Equal(t, "config-key", cfg.ExplainerAPIKey())

	cfg.Explainer.APIKey = ""
	cfg.Explainer.Provider = ""
	assert.Equal(t, "", cfg.ExplainerAPIKey())
}
