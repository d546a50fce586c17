// internal/config/config.go
package config

type Config struct {
	S7South ServiceConfig `yaml:"s7south"`
}

type ServiceConfig struct {
	Asset   string        `yaml:"asset"`
	Source  SourceConfig  `yaml:"source"`
	Poll    PollConfig    `yaml:"poll"`
	Map     MapConfig     `yaml:"map"`
	SaveAs  string        `yaml:"save_as"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ---- SOURCE ----

type SourceConfig struct {
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	TimeoutMs int    `yaml:"timeout_ms"`

	// Rack and slot identify the CPU on the far side of the gateway.
	// They take no part in addressing here, but a change to either
	// forces a reconnect on reconfiguration.
	Rack int `yaml:"rack"`
	Slot int `yaml:"slot"`

	// BlockBase maps each data block to the holding-register address
	// where the gateway exposes its byte 0.
	BlockBase map[int]uint16 `yaml:"block_base"`
}

// ---- POLL ----

type PollConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}

// ---- REGISTER MAP ----

// MapConfig locates the JSON register-map document, either embedded
// in the service config or in a separate file.
type MapConfig struct {
	Inline string `yaml:"inline"`
	File   string `yaml:"file"`
}

// ---- LOGGING / METRICS ----

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type MetricsConfig struct {
	// Listen is the address for the Prometheus endpoint; empty
	// disables it.
	Listen string `yaml:"listen"`
}

// ConnectionChanged reports whether a reconfiguration touched any key
// that requires tearing down the device connection.
func ConnectionChanged(prev, next *Config) bool {
	a, b := prev.S7South.Source, next.S7South.Source
	if a.Endpoint != b.Endpoint || a.UnitID != b.UnitID ||
		a.Rack != b.Rack || a.Slot != b.Slot || a.TimeoutMs != b.TimeoutMs {
		return true
	}
	if len(a.BlockBase) != len(b.BlockBase) {
		return true
	}
	for db, base := range a.BlockBase {
		if other, ok := b.BlockBase[db]; !ok || other != base {
			return true
		}
	}
	return false
}
