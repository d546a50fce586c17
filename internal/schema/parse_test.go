// internal/schema/parse_test.go
package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_FlatBlock(t *testing.T) {
	doc := []byte(`{
		"788": {
			"256.0": {"name": "Count",  "type": "UINT"},
			"0.0":   {"name": "Job",    "type": "String[254]"},
			"258.0": {"name": "Active", "type": "BOOL"},
			"258.1": {"name": "Alarm",  "type": "BOOL"}
		}
	}`)

	s, err := Load(doc)
	require.NoError(t, err)
	require.Len(t, s, 1)

	fields := s[788]
	require.Len(t, fields, 4)

	// ascending by byte, then bit, regardless of document order
	require.Equal(t, "Job", fields[0].Name)
	require.Equal(t, "Count", fields[1].Name)
	require.Equal(t, "Active", fields[2].Name)
	require.Equal(t, "Alarm", fields[3].Name)
	require.Equal(t, 1, fields[3].Bit)

	require.Equal(t, KindString, fields[0].Type.Kind)
	require.Equal(t, 254, fields[0].Type.MaxLen)
	require.Equal(t, KindUInt, fields[1].Type.Kind)
}

func TestLoad_LegacyDBWrapper(t *testing.T) {
	doc := []byte(`{"DB": {"11": {"0.0": {"name": "X", "type": "Int"}}}}`)

	s, err := Load(doc)
	require.NoError(t, err)
	require.Contains(t, s, 11)
}

func TestLoad_StructWithMisspelledDefinition(t *testing.T) {
	// early map documents shipped the key misspelled "defintion"
	doc := []byte(`{
		"11": {
			"0.0": {
				"name": "MyUDTs",
				"type": "Struct[0..20]",
				"defintion": {
					"0.0":   {"name": "Order", "type": "String"},
					"256.0": {"name": "Id",    "type": "DWord"}
				},
				"offset": 2
			}
		}
	}`)

	s, err := Load(doc)
	require.NoError(t, err)

	f := s[11][0]
	require.Equal(t, KindArray, f.Type.Kind)
	require.Equal(t, 21, f.Type.Count)
	require.Equal(t, 2, f.Type.Pad)
	require.Equal(t, KindStruct, f.Type.Elem.Kind)
	require.Len(t, f.Type.Elem.Fields, 2)
	require.Equal(t, DefaultStringLen, f.Type.Elem.Fields[0].Type.MaxLen)
}

func TestLoad_ArrayDimensions(t *testing.T) {
	doc := []byte(`{
		"1": {
			"0.0":  {"name": "Ints",    "type": "Int[0..9]"},
			"20.0": {"name": "Flags",   "type": "Bool[16]"},
			"22.0": {"name": "Names",   "type": "String[8][4]"},
			"64.0": {"name": "Chars",   "type": "Char[11]"}
		}
	}`)

	s, err := Load(doc)
	require.NoError(t, err)
	fields := s[1]

	require.Equal(t, KindArray, fields[0].Type.Kind)
	require.Equal(t, 10, fields[0].Type.Count)
	require.Equal(t, KindInt, fields[0].Type.Elem.Kind)

	require.Equal(t, KindBitArray, fields[1].Type.Kind)
	require.Equal(t, 16, fields[1].Type.Count)

	require.Equal(t, KindArray, fields[2].Type.Kind)
	require.Equal(t, 4, fields[2].Type.Count)
	require.Equal(t, KindString, fields[2].Type.Elem.Kind)
	require.Equal(t, 8, fields[2].Type.Elem.MaxLen)

	require.Equal(t, KindArray, fields[3].Type.Kind)
	require.Equal(t, KindChar, fields[3].Type.Elem.Kind)
}

func TestLoad_BitOffsetOnNonBool(t *testing.T) {
	doc := []byte(`{"1": {"0.3": {"name": "X", "type": "Int"}}}`)

	_, err := Load(doc)
	require.ErrorIs(t, err, ErrInvalidBitIndex)
}

func TestLoad_UnknownType(t *testing.T) {
	doc := []byte(`{"1": {"0.0": {"name": "X", "type": "Quaternion"}}}`)

	_, err := Load(doc)
	require.ErrorIs(t, err, ErrUnknownType)
}

func TestLoad_StructWithoutDefinition(t *testing.T) {
	doc := []byte(`{"1": {"0.0": {"name": "X", "type": "Struct"}}}`)

	_, err := Load(doc)
	require.ErrorIs(t, err, ErrMissingDefinition)
}

func TestLoad_StructWithoutBaseField(t *testing.T) {
	doc := []byte(`{
		"1": {
			"0.0": {
				"name": "X", "type": "Struct",
				"definition": {"4.0": {"name": "Y", "type": "Int"}}
			}
		}
	}`)

	_, err := Load(doc)
	require.ErrorIs(t, err, ErrMissingBaseField)
}

func TestLoad_BadOffsetKey(t *testing.T) {
	for _, key := range []string{"a.0", "0.9", "-1.0", "1.2.3"} {
		doc := []byte(`{"1": {"` + key + `": {"name": "X", "type": "Int"}}}`)
		_, err := Load(doc)
		require.ErrorIs(t, err, ErrBadOffsetKey, "key %q", key)
	}
}

func TestLoad_NonNumericBlockID(t *testing.T) {
	doc := []byte(`{"DBX": {"0.0": {"name": "X", "type": "Int"}}}`)

	_, err := Load(doc)
	require.Error(t, err)
}
