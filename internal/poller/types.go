// internal/poller/types.go
package poller

import (
	"time"

	"github.com/edgeplc/s7south/internal/decode"
)

// PollResult is a snapshot produced by one poll cycle.
type PollResult struct {
	Asset string
	At    time.Time

	// Readings holds the shaped output of every field that decoded,
	// keyed "DB<block>_<field>" (plus path segments in flat mode).
	// Duplicate keys are last-write-wins.
	Readings map[string]decode.Value

	// BlockErrs records blocks whose poll failed. Other blocks'
	// readings are unaffected.
	BlockErrs map[int]error

	// Err is non-nil when the whole cycle produced nothing, for
	// example when the device is unreachable.
	Err error
}
