// internal/flatten/flatten.go
package flatten

import (
	"fmt"
	"strconv"

	"github.com/edgeplc/s7south/internal/decode"
)

// Pair is one flattened key with its scalar value.
type Pair struct {
	Key   string
	Value decode.Value
}

// Walk flattens a decoded value tree into ordered (key, scalar) pairs.
// Records recurse in declaration order with the member name appended,
// sequences with the element index. A scalar emits exactly one pair
// under the bare prefix. Keys are never merged or dropped here; if two
// branches produce the same flat key the caller's map applies
// last-write-wins.
func Walk(v decode.Value, prefix, sep string) []Pair {
	switch v.Kind {
	case decode.KindSeq:
		out := make([]Pair, 0, len(v.Seq))
		for i, c := range v.Seq {
			out = append(out, Walk(c, prefix+sep+strconv.Itoa(i), sep)...)
		}
		return out

	case decode.KindRecord:
		out := make([]Pair, 0, len(v.Rec))
		for _, e := range v.Rec {
			out = append(out, Walk(e.Value, prefix+sep+e.Name, sep)...)
		}
		return out

	default:
		return []Pair{{Key: prefix, Value: v}}
	}
}

// EscapeJSON backslash-escapes quotes, backslashes and control
// characters so an already-serialized JSON document can be embedded as
// a single JSON string value.
func EscapeJSON(s string) string {
	out := make([]byte, 0, len(s)+8)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			out = append(out, '\\', '"')
		case '\\':
			out = append(out, '\\', '\\')
		case '\b':
			out = append(out, '\\', 'b')
		case '\f':
			out = append(out, '\\', 'f')
		case '\n':
			out = append(out, '\\', 'n')
		case '\r':
			out = append(out, '\\', 'r')
		case '\t':
			out = append(out, '\\', 't')
		default:
			if c < 0x20 {
				out = append(out, []byte(fmt.Sprintf(`\u%04x`, c))...)
			} else {
				out = append(out, c)
			}
		}
	}
	return string(out)
}
