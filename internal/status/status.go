// internal/status/status.go
package status

// Health codes for the device connection.
const (
	// HealthUnknown is the boot state before the first poll.
	HealthUnknown uint8 = 0
	// HealthOK means the last poll fetched every block.
	HealthOK uint8 = 1
	// HealthError means the last poll failed at least one block.
	HealthError uint8 = 2
)

// HealthString renders a health code for logs.
func HealthString(h uint8) string {
	switch h {
	case HealthOK:
		return "ok"
	case HealthError:
		return "error"
	default:
		return "unknown"
	}
}

// Snapshot is the poller's current view of device health. It carries
// no logic and no memory beyond the current state.
type Snapshot struct {
	Health              uint8
	ConsecutiveFailures int
	LastError           string
}

// Observe folds one poll outcome into the snapshot and reports whether
// the health state changed.
func (s *Snapshot) Observe(err error) bool {
	if err == nil {
		changed := s.Health != HealthOK
		s.Health = HealthOK
		s.ConsecutiveFailures = 0
		s.LastError = ""
		return changed
	}

	changed := s.Health != HealthError
	s.Health = HealthError
	s.ConsecutiveFailures++
	s.LastError = err.Error()
	return changed
}
