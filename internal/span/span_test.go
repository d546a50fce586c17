// internal/span/span_test.go
package span

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edgeplc/s7south/internal/schema"
)

func TestCoalesce_GapOfTwoStaysSplit(t *testing.T) {
	got := Coalesce([]Interval{{0, 1}, {4, 7}})
	require.Equal(t, []Interval{{0, 1}, {4, 7}}, got)
}

func TestCoalesce_AdjacentMerged(t *testing.T) {
	got := Coalesce([]Interval{{0, 3}, {4, 7}})
	require.Equal(t, []Interval{{0, 7}}, got)
}

func TestCoalesce_OverlapAndContainment(t *testing.T) {
	got := Coalesce([]Interval{{10, 20}, {0, 5}, {12, 15}, {18, 25}})
	require.Equal(t, []Interval{{0, 5}, {10, 25}}, got)
}

func TestCoalesce_Empty(t *testing.T) {
	require.Nil(t, Coalesce(nil))
}

func TestCoalesce_InputUntouched(t *testing.T) {
	in := []Interval{{5, 6}, {0, 1}}
	Coalesce(in)
	require.Equal(t, []Interval{{5, 6}, {0, 1}}, in)
}

func TestCoalesce_OutputProperties(t *testing.T) {
	in := []Interval{
		{100, 120}, {0, 0}, {1, 1}, {3, 3}, {119, 140},
		{50, 60}, {61, 61}, {64, 70}, {2, 10},
	}

	out := Coalesce(in)

	// sorted, disjoint, unmergeable
	for i := 1; i < len(out); i++ {
		require.Greater(t, out[i].Start, out[i-1].End+1)
	}

	// coverage equals the union of the inputs
	covered := func(b int) bool {
		for _, iv := range out {
			if iv.Contains(b) {
				return true
			}
		}
		return false
	}
	for _, iv := range in {
		for b := iv.Start; b <= iv.End; b++ {
			require.True(t, covered(b), "byte %d lost", b)
		}
	}
}

func TestForFields_ComputesSpansFromSizes(t *testing.T) {
	fields := schema.FieldSet{
		{Name: "A", Byte: 0, Type: &schema.Type{Kind: schema.KindUInt}},   // 0-1
		{Name: "B", Byte: 2, Type: &schema.Type{Kind: schema.KindReal}},   // 2-5
		{Name: "C", Byte: 10, Type: &schema.Type{Kind: schema.KindLReal}}, // 10-17
	}

	spans, err := ForFields(fields)
	require.NoError(t, err)
	require.Equal(t, []Interval{{0, 5}, {10, 17}}, spans)
}

func TestForFields_SizingFailureIsFatal(t *testing.T) {
	fields := schema.FieldSet{
		{Name: "A", Byte: 0, Type: &schema.Type{Kind: schema.KindInt}},
		{Name: "Bad", Byte: 4, Type: &schema.Type{Kind: schema.KindStruct}},
	}

	_, err := ForFields(fields)
	require.ErrorIs(t, err, schema.ErrMissingDefinition)
}

func TestForFields_Empty(t *testing.T) {
	spans, err := ForFields(nil)
	require.NoError(t, err)
	require.Nil(t, spans)
}
