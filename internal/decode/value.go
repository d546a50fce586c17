// internal/decode/value.go
package decode

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ValueKind tags the variant a Value carries.
type ValueKind int

const (
	KindInvalid ValueKind = iota
	KindBool
	KindUint
	KindInt
	KindFloat
	KindString
	KindBytes
	KindSeq
	KindRecord
)

// Value is the decoded form of one field: a scalar, an ordered sequence
// or a named record. Values are built fresh per decode pass and never
// alias schema storage. Record entries keep declaration order so
// flattening and JSON output are deterministic.
type Value struct {
	Kind ValueKind

	Bool  bool
	Uint  uint64
	Int   int64
	Float float64
	Str   string
	Raw   []byte

	Seq []Value
	Rec []Entry
}

// Entry is one named member of a record value.
type Entry struct {
	Name  string
	Value Value
}

func BoolValue(b bool) Value      { return Value{Kind: KindBool, Bool: b} }
func UintValue(u uint64) Value    { return Value{Kind: KindUint, Uint: u} }
func IntValue(i int64) Value      { return Value{Kind: KindInt, Int: i} }
func FloatValue(f float64) Value  { return Value{Kind: KindFloat, Float: f} }
func StringValue(s string) Value  { return Value{Kind: KindString, Str: s} }
func BytesValue(b []byte) Value   { return Value{Kind: KindBytes, Raw: b} }
func SeqValue(vs []Value) Value   { return Value{Kind: KindSeq, Seq: vs} }
func RecordValue(es []Entry) Value { return Value{Kind: KindRecord, Rec: es} }

// Scalar reports whether the value is a leaf.
func (v Value) Scalar() bool {
	return v.Kind != KindSeq && v.Kind != KindRecord
}

// MarshalJSON renders the value as plain JSON. Records marshal as
// objects in declaration order; byte scalars marshal as strings of
// their raw bytes.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindBool:
		return json.Marshal(v.Bool)
	case KindUint:
		return json.Marshal(v.Uint)
	case KindInt:
		return json.Marshal(v.Int)
	case KindFloat:
		return json.Marshal(v.Float)
	case KindString:
		return json.Marshal(v.Str)
	case KindBytes:
		return json.Marshal(string(v.Raw))

	case KindSeq:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, c := range v.Seq {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := c.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil

	case KindRecord:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, e := range v.Rec {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(e.Name)
			if err != nil {
				return nil, err
			}
			buf.Write(k)
			buf.WriteByte(':')
			b, err := e.Value.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil

	default:
		return nil, fmt.Errorf("decode: cannot marshal invalid value")
	}
}

// String renders a short human-readable form for logs.
func (v Value) String() string {
	switch v.Kind {
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindUint:
		return strconv.FormatUint(v.Uint, 10)
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindString:
		return v.Str
	case KindBytes:
		return fmt.Sprintf("%q", v.Raw)
	case KindSeq:
		return fmt.Sprintf("seq(%d)", len(v.Seq))
	case KindRecord:
		return fmt.Sprintf("record(%d)", len(v.Rec))
	default:
		return "invalid"
	}
}
