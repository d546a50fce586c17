// internal/config/normalize.go
package config

// Defaults applied by Normalize.
const (
	DefaultIntervalMs = 1000
	DefaultTimeoutMs  = 2000
)

// Normalize applies post-validation defaulting.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	s := &cfg.S7South

	if s.Poll.IntervalMs == 0 {
		s.Poll.IntervalMs = DefaultIntervalMs
	}
	if s.Source.TimeoutMs == 0 {
		s.Source.TimeoutMs = DefaultTimeoutMs
	}
	if s.SaveAs == "" {
		s.SaveAs = "flat"
	}
	if s.Log.Level == "" {
		s.Log.Level = "info"
	}
	if s.Log.Format == "" {
		s.Log.Format = "logfmt"
	}
}
