package tracing

import (
	"testing"
)

func TestProviderConfiguration(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		expectError bool
	}{
		{
			name: "disabled provider",
			cfg: Config{
				Enabled: false,
			},
			expectError: false,
		},
		{
			name: "enabled without endpoint",
			cfg: Config{
				Enabled: true,
			},
			expectError: true,
		},
		{
			name: "TLS with insecure skip verify",
			cfg: Config{
				Enabled:     true,
				Endpoint:    "localhost:4317",
				TLSInsecure: true,
			},
			expectError: false,
		},
		{
			name: "TLS with missing CA certificate",
			cfg: Config{
				Enabled:   true,
				Endpoint:  "localhost:4317",
				TLSCAPath: "/path/to/ca.crt",
			},
			expectError: true,
		},
		{
			name: "no TLS (insecure connection)",
			cfg: Config{
				Enabled:  true,
				Endpoint: "localhost:4317",
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(tt.cfg)
			if tt.expectError && err == nil {
				t.Errorf("Expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if provider != nil && provider.enabled != tt.cfg.Enabled {
				t.Errorf("Provider enabled=%v, want %v", provider.enabled, tt.cfg.Enabled)
			}
		})
	}
}
