// internal/config/validate.go
package config

import (
	"fmt"
)

var saveModes = map[string]bool{
	"":        true, // defaulted by Normalize
	"flat":    true,
	"escaped": true,
	"object":  true,
}

var logLevels = map[string]bool{
	"": true, "debug": true, "info": true, "warn": true, "error": true,
}

var logFormats = map[string]bool{
	"": true, "logfmt": true, "json": true,
}

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	s := cfg.S7South

	if s.Asset == "" {
		return fmt.Errorf("config: asset name is required")
	}

	// ------------------------------------------------------------
	// SOURCE
	// ------------------------------------------------------------

	if s.Source.Endpoint == "" {
		return fmt.Errorf("config: source endpoint is required")
	}
	if s.Source.TimeoutMs < 0 {
		return fmt.Errorf("config: timeout_ms must not be negative")
	}
	if s.Source.Rack < 0 || s.Source.Slot < 0 {
		return fmt.Errorf("config: rack and slot must not be negative")
	}

	// ------------------------------------------------------------
	// POLL / OUTPUT
	// ------------------------------------------------------------

	if s.Poll.IntervalMs < 0 {
		return fmt.Errorf("config: poll interval_ms must not be negative")
	}
	if !saveModes[s.SaveAs] {
		return fmt.Errorf("config: save_as must be one of flat, escaped, object; got %q", s.SaveAs)
	}

	// ------------------------------------------------------------
	// REGISTER MAP
	// ------------------------------------------------------------

	if s.Map.Inline == "" && s.Map.File == "" {
		return fmt.Errorf("config: register map is required (map.inline or map.file)")
	}
	if s.Map.Inline != "" && s.Map.File != "" {
		return fmt.Errorf("config: map.inline and map.file are mutually exclusive")
	}

	// ------------------------------------------------------------
	// LOGGING
	// ------------------------------------------------------------

	if !logLevels[s.Log.Level] {
		return fmt.Errorf("config: unknown log level %q", s.Log.Level)
	}
	if !logFormats[s.Log.Format] {
		return fmt.Errorf("config: unknown log format %q", s.Log.Format)
	}

	return nil
}
