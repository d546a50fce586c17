// internal/flatten/flatten_test.go
package flatten

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edgeplc/s7south/internal/decode"
)

func TestWalk_RecordAndSequence(t *testing.T) {
	v := decode.RecordValue([]decode.Entry{
		{Name: "A", Value: decode.UintValue(1)},
		{Name: "B", Value: decode.SeqValue([]decode.Value{
			decode.UintValue(2),
			decode.UintValue(3),
		})},
	})

	got := Walk(v, "X", "_")
	require.Equal(t, []Pair{
		{Key: "X_A", Value: decode.UintValue(1)},
		{Key: "X_B_0", Value: decode.UintValue(2)},
		{Key: "X_B_1", Value: decode.UintValue(3)},
	}, got)
}

func TestWalk_Scalar(t *testing.T) {
	got := Walk(decode.BoolValue(true), "DB1_Active", "_")
	require.Equal(t, []Pair{{Key: "DB1_Active", Value: decode.BoolValue(true)}}, got)
}

func TestWalk_NestedRecordOrder(t *testing.T) {
	v := decode.SeqValue([]decode.Value{
		decode.RecordValue([]decode.Entry{
			{Name: "Id", Value: decode.UintValue(7)},
			{Name: "Len", Value: decode.FloatValue(1.25)},
		}),
	})

	got := Walk(v, "DB11_MyUDTs", "_")
	require.Equal(t, []Pair{
		{Key: "DB11_MyUDTs_0_Id", Value: decode.UintValue(7)},
		{Key: "DB11_MyUDTs_0_Len", Value: decode.FloatValue(1.25)},
	}, got)
}

func TestEscapeJSON(t *testing.T) {
	cases := []struct{ in, want string }{
		{`{"a":"b"}`, `{\"a\":\"b\"}`},
		{"a\\b", `a\\b`},
		{"line\nbreak", `line\nbreak`},
		{"tab\tcr\r", `tab\tcr\r`},
		{"bell\x07", `bell\u0007`},
		{"plain", "plain"},
	}

	for _, c := range cases {
		require.Equal(t, c.want, EscapeJSON(c.in))
	}
}

func TestParseMode(t *testing.T) {
	for s, want := range map[string]Mode{
		"":        ModeFlat,
		"flat":    ModeFlat,
		"escaped": ModeEscaped,
		"object":  ModeObject,
	} {
		m, ok := ParseMode(s)
		require.True(t, ok, s)
		require.Equal(t, want, m)
	}

	_, ok := ParseMode("nested")
	require.False(t, ok)
}

func TestShape_Flat(t *testing.T) {
	v := decode.RecordValue([]decode.Entry{
		{Name: "Id", Value: decode.UintValue(9)},
	})

	pairs, err := Shape(ModeFlat, 788, "Job", v)
	require.NoError(t, err)
	require.Equal(t, []Pair{{Key: "DB788_Job_Id", Value: decode.UintValue(9)}}, pairs)
}

func TestShape_Escaped(t *testing.T) {
	v := decode.RecordValue([]decode.Entry{
		{Name: "Id", Value: decode.UintValue(9)},
	})

	pairs, err := Shape(ModeEscaped, 788, "Job", v)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	require.Equal(t, "DB788_Job", pairs[0].Key)
	require.Equal(t, decode.StringValue(`{\"Id\":9}`), pairs[0].Value)
}

func TestShape_Object(t *testing.T) {
	v := decode.SeqValue([]decode.Value{decode.UintValue(1)})

	pairs, err := Shape(ModeObject, 2, "Arr", v)
	require.NoError(t, err)
	require.Equal(t, []Pair{{Key: "DB2_Arr", Value: v}}, pairs)
}
