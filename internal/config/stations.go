package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// StationsFile describes the production station catalog. Stations marked
// final_inspection join the critical set used by the station-proximity
// risk signal.
type StationsFile struct {
	Stations []Station `yaml:"stations"`
}

// Station is one production station.
type Station struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Line string `yaml:"line,omitempty"`

	// FinalInspection marks late-stage inspection stations where
	// cost-of-failure is highest.
	FinalInspection bool `yaml:"final_inspection"`
}

// LoadStations loads the station catalog from a YAML file.
func LoadStations(path string) (*StationsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stations file %s: %w", path, err)
	}

	var sf StationsFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("failed to parse stations YAML: %w", err)
	}

	if err := sf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid stations file: %w", err)
	}

	return &sf, nil
}

// Validate checks that the station catalog is well formed.
func (sf *StationsFile) Validate() error {
	if len(sf.Stations) == 0 {
		return fmt.Errorf("at least one station must be specified")
	}

	seen := make(map[string]bool)
	for i, s := range sf.Stations {
		if s.ID == "" {
			return fmt.Errorf("station[%d]: id must not be empty", i)
		}
		if seen[s.ID] {
			return fmt.Errorf("station[%d]: duplicate id %q", i, s.ID)
		}
		seen[s.ID] = true
	}
	return nil
}

// CriticalIDs returns the IDs of final-inspection stations.
func (sf *StationsFile) CriticalIDs() []string {
	var ids []string
	for _, s := range sf.Stations {
		if s.FinalInspection {
			ids = append(ids, s.ID)
		}
	}
	return ids
}
