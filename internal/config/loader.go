package config

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load reads and validates an engine configuration file using Koanf.
// Values missing from the file keep their defaults; the file only needs
// to name what it overrides.
//
// Error cases:
//   - file not found or unreadable
//   - invalid YAML syntax
//   - schema validation failure (bad version, weights not summing to 1.0)
func Load(filepath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(filepath), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load engine config from %q: %w", filepath, err)
	}

	cfg := DefaultConfig()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, fmt.Errorf("failed to parse engine config from %q: %w", filepath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine config validation failed for %q: %w", filepath, err)
	}

	return cfg, nil
}
