// internal/span/span.go
package span

import (
	"fmt"
	"sort"

	"github.com/edgeplc/s7south/internal/schema"
)

// Interval is an inclusive byte range within one data block.
type Interval struct {
	Start int
	End   int
}

// Len returns the number of bytes the interval covers.
func (iv Interval) Len() int { return iv.End - iv.Start + 1 }

// Contains reports whether byte position b falls inside the interval.
func (iv Interval) Contains(b int) bool { return iv.Start <= b && b <= iv.End }

// Coalesce merges overlapping and adjacent intervals into the minimal
// covering set. The result is sorted, pairwise disjoint, and no two
// output intervals can be merged further (every gap is at least two
// byte positions). Input order does not matter; the input slice is not
// modified.
func Coalesce(in []Interval) []Interval {
	if len(in) == 0 {
		return nil
	}

	sorted := make([]Interval, len(in))
	copy(sorted, in)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	out := make([]Interval, 0, len(sorted))
	out = append(out, sorted[0])
	for _, iv := range sorted[1:] {
		last := &out[len(out)-1]
		if iv.Start <= last.End+1 {
			if iv.End > last.End {
				last.End = iv.End
			}
			continue
		}
		out = append(out, iv)
	}
	return out
}

// ForFields computes the coalesced byte spans a device must serve to
// satisfy every field of one block. Sizing failures make the whole
// block unreadable: without sizes there is nothing safe to fetch.
func ForFields(fields schema.FieldSet) ([]Interval, error) {
	if len(fields) == 0 {
		return nil, nil
	}

	raw := make([]Interval, 0, len(fields))
	for _, f := range fields {
		n, err := schema.SizeOf(f.Type)
		if err != nil {
			return nil, fmt.Errorf("span: sizing field %q: %w", f.Name, err)
		}
		raw = append(raw, Interval{Start: f.Byte, End: f.Byte + n - 1})
	}
	return Coalesce(raw), nil
}
