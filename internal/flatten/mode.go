// internal/flatten/mode.go
package flatten

import (
	"fmt"
	"strconv"

	"github.com/edgeplc/s7south/internal/decode"
)

// Mode selects how composite values are shaped into readings.
type Mode string

const (
	// ModeFlat walks the value tree into underscore-joined keys.
	ModeFlat Mode = "flat"
	// ModeEscaped serializes the value to JSON and escapes it for
	// embedding as a single string.
	ModeEscaped Mode = "escaped"
	// ModeObject passes the decoded value through unmodified.
	ModeObject Mode = "object"
)

// ParseMode parses a mode string. The empty string means flat.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeFlat, "":
		return ModeFlat, true
	case ModeEscaped:
		return ModeEscaped, true
	case ModeObject:
		return ModeObject, true
	default:
		return "", false
	}
}

// Separator joins key path segments in flat mode.
const Separator = "_"

// FieldKey builds the reading key for one decoded field:
// "DB<block>_<name>".
func FieldKey(block int, name string) string {
	return "DB" + strconv.Itoa(block) + Separator + name
}

// Shape applies the configured output mode to one decoded field value
// and returns the reading pairs to store.
func Shape(mode Mode, block int, name string, v decode.Value) ([]Pair, error) {
	key := FieldKey(block, name)

	switch mode {
	case ModeFlat:
		return Walk(v, key, Separator), nil

	case ModeEscaped:
		doc, err := v.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("flatten: serialize %s: %w", key, err)
		}
		return []Pair{{Key: key, Value: decode.StringValue(EscapeJSON(string(doc)))}}, nil

	case ModeObject:
		return []Pair{{Key: key, Value: v}}, nil

	default:
		return nil, fmt.Errorf("flatten: unknown mode %q", mode)
	}
}
