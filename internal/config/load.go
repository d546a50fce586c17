// internal/config/load.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads and parses the service configuration. Validation and
// normalization are separate steps.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}

// MapDocument returns the JSON register-map document, reading it from
// disk when the config references a file. Inline wins when both are
// set (Validate rejects that anyway).
func (c *Config) MapDocument() ([]byte, error) {
	if c.S7South.Map.Inline != "" {
		return []byte(c.S7South.Map.Inline), nil
	}
	if c.S7South.Map.File != "" {
		data, err := os.ReadFile(c.S7South.Map.File)
		if err != nil {
			return nil, fmt.Errorf("config: read map file: %w", err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("config: no register map configured")
}
