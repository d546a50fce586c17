// internal/decode/decode.go
package decode

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/edgeplc/s7south/internal/schema"
)

// Decode extracts one value from buf according to t. off is the byte
// position within buf; callers translate a field's absolute block
// offset into a span-relative one before calling. bit selects the bit
// position for Bool fields and must be zero otherwise.
//
// All multi-byte numerics are big-endian, matching the device's wire
// order. Struct decoding is partial on member failure: the returned
// record omits failed members and the joined error names each one, so
// the caller can log and keep the rest.
func Decode(buf []byte, off, bit int, t *schema.Type) (Value, error) {
	if t == nil {
		return Value{}, ErrUnknownType
	}

	switch t.Kind {
	case schema.KindBool:
		if bit < 0 || bit > 7 {
			return Value{}, fmt.Errorf("%w: %d", ErrInvalidBitIndex, bit)
		}
		if err := need(buf, off, 1); err != nil {
			return Value{}, err
		}
		return BoolValue((buf[off]>>uint(bit))&1 == 1), nil

	case schema.KindByte, schema.KindUSInt:
		if err := need(buf, off, 1); err != nil {
			return Value{}, err
		}
		return UintValue(uint64(buf[off])), nil

	case schema.KindChar:
		// raw byte, deliberately not interpreted as text
		if err := need(buf, off, 1); err != nil {
			return Value{}, err
		}
		return BytesValue([]byte{buf[off]}), nil

	case schema.KindWord, schema.KindUInt:
		u, err := readUint(buf, off, 2)
		return UintValue(u), err

	case schema.KindDWord, schema.KindUDInt:
		u, err := readUint(buf, off, 4)
		return UintValue(u), err

	case schema.KindLWord, schema.KindULInt:
		u, err := readUint(buf, off, 8)
		return UintValue(u), err

	case schema.KindSInt:
		i, err := readInt(buf, off, 1)
		return IntValue(i), err

	case schema.KindInt:
		i, err := readInt(buf, off, 2)
		return IntValue(i), err

	case schema.KindDInt, schema.KindTime:
		// TIME is a DInt carrying milliseconds
		i, err := readInt(buf, off, 4)
		return IntValue(i), err

	case schema.KindLInt, schema.KindLTime:
		// LTIME is an LInt carrying nanoseconds
		i, err := readInt(buf, off, 8)
		return IntValue(i), err

	case schema.KindReal:
		u, err := readUint(buf, off, 4)
		if err != nil {
			return Value{}, err
		}
		return FloatValue(float64(math.Float32frombits(uint32(u)))), nil

	case schema.KindLReal:
		u, err := readUint(buf, off, 8)
		if err != nil {
			return Value{}, err
		}
		return FloatValue(math.Float64frombits(u)), nil

	case schema.KindString:
		return decodeString(buf, off, t.MaxLen)

	case schema.KindDateAndTime:
		return decodeDateAndTime(buf, off)

	case schema.KindDate, schema.KindTimeOfDay:
		return Value{}, fmt.Errorf("%w: %s", ErrUnsupported, t.Kind)

	case schema.KindBitArray:
		return decodeBitArray(buf, off, t.Count)

	case schema.KindArray:
		return decodeArray(buf, off, t)

	case schema.KindStruct:
		return decodeStruct(buf, off, t.Fields)

	default:
		return Value{}, fmt.Errorf("%w: %s", ErrUnknownType, t.Kind)
	}
}

func need(buf []byte, off, n int) error {
	if off < 0 || off+n > len(buf) {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d",
			ErrOutOfBounds, n, off, len(buf))
	}
	return nil
}

func readUint(buf []byte, off, n int) (uint64, error) {
	if err := need(buf, off, n); err != nil {
		return 0, err
	}
	var u uint64
	for _, b := range buf[off : off+n] {
		u = u<<8 | uint64(b)
	}
	return u, nil
}

func readInt(buf []byte, off, n int) (int64, error) {
	u, err := readUint(buf, off, n)
	if err != nil {
		return 0, err
	}
	// sign-extend from n bytes
	shift := uint(64 - 8*n)
	return int64(u<<shift) >> shift, nil
}

// decodeString reads an S7 STRING: one declared-capacity byte, one
// actual-length byte, then the payload. The output is truncated to the
// actual length; the field still occupies maxLen+2 bytes on the wire
// regardless of content.
func decodeString(buf []byte, off, maxLen int) (Value, error) {
	if err := need(buf, off, 2); err != nil {
		return Value{}, err
	}
	actual := int(buf[off+1])
	if actual > maxLen {
		actual = maxLen
	}
	if err := need(buf, off+2, actual); err != nil {
		return Value{}, err
	}
	return StringValue(string(buf[off+2 : off+2+actual])), nil
}

// decodeDateAndTime reads an 8-byte BCD DATE_AND_TIME and renders it
// as an ISO-8601 timestamp with millisecond precision. Year 90-99 maps
// to 1990-1999, everything below to 2000+. The weekday nibble in the
// last byte is ignored.
func decodeDateAndTime(buf []byte, off int) (Value, error) {
	if err := need(buf, off, 8); err != nil {
		return Value{}, err
	}

	b := buf[off : off+8]
	year := bcd(b[0])
	if year >= 90 {
		year += 1900
	} else {
		year += 2000
	}
	msec := bcd(b[6])*10 + int(b[7]>>4)

	ts := time.Date(year, time.Month(bcd(b[1])), bcd(b[2]),
		bcd(b[3]), bcd(b[4]), bcd(b[5]), msec*int(time.Millisecond), time.UTC)
	return StringValue(ts.Format("2006-01-02T15:04:05.000")), nil
}

func bcd(b byte) int {
	return int(b>>4)*10 + int(b&0x0f)
}

func decodeBitArray(buf []byte, off, count int) (Value, error) {
	out := make([]Value, 0, count)
	for i := 0; i < count; i++ {
		v, err := Decode(buf, off+i/8, i%8, &schema.Type{Kind: schema.KindBool})
		if err != nil {
			return Value{}, err
		}
		out = append(out, v)
	}
	return SeqValue(out), nil
}

// decodeArray walks count elements at their computed stride. Elements
// are laid out contiguously and ascending, so the first failing
// element would fail identically for every later one; the array fails
// as a whole rather than producing a gap-shifted sequence.
func decodeArray(buf []byte, off int, t *schema.Type) (Value, error) {
	elemSize, err := schema.SizeOf(t.Elem)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %v", ErrUnknownType, err)
	}

	stride := elemSize + t.Pad
	out := make([]Value, 0, t.Count)
	for i := 0; i < t.Count; i++ {
		v, err := Decode(buf, off+i*stride, 0, t.Elem)
		if err != nil {
			return Value{}, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, v)
	}
	return SeqValue(out), nil
}

// decodeStruct decodes every member independently. Failed members are
// omitted from the record and reported through the joined error; the
// record itself stays usable.
func decodeStruct(buf []byte, off int, fields schema.FieldSet) (Value, error) {
	rec := make([]Entry, 0, len(fields))
	var errs []error

	for _, f := range fields {
		v, err := Decode(buf, off+f.Byte, f.Bit, f.Type)
		if err != nil {
			errs = append(errs, &FieldError{Name: f.Name, Err: err})
			// a nested struct may still have decoded some members
			if v.Kind == KindRecord && len(v.Rec) > 0 {
				rec = append(rec, Entry{Name: f.Name, Value: v})
			}
			continue
		}
		rec = append(rec, Entry{Name: f.Name, Value: v})
	}

	return RecordValue(rec), errors.Join(errs...)
}
