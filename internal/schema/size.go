// internal/schema/size.go
package schema

import "fmt"

// scalarSize maps scalar kinds to their on-wire widths in bytes.
var scalarSize = map[Kind]int{
	KindBool:        1,
	KindByte:        1,
	KindChar:        1,
	KindWord:        2,
	KindDWord:       4,
	KindLWord:       8,
	KindUSInt:       1,
	KindUInt:        2,
	KindUDInt:       4,
	KindULInt:       8,
	KindSInt:        1,
	KindInt:         2,
	KindDInt:        4,
	KindLInt:        8,
	KindReal:        4,
	KindLReal:       8,
	KindTime:        4,
	KindLTime:       8,
	KindDateAndTime: 8,
	KindDate:        2,
	KindTimeOfDay:   4,
}

// SizeOf computes the total on-wire size of a type in bytes. It is a
// pure function of the descriptor and never touches a buffer, so span
// computation can run before any device read.
func SizeOf(t *Type) (int, error) {
	if t == nil {
		return 0, ErrUnknownType
	}

	switch t.Kind {
	case KindString:
		// one capacity byte, one length byte, then the payload
		return t.MaxLen + 2, nil

	case KindBitArray:
		return (t.Count + 7) / 8, nil

	case KindArray:
		elem, err := SizeOf(t.Elem)
		if err != nil {
			return 0, err
		}
		return (elem + t.Pad) * t.Count, nil

	case KindStruct:
		return structSize(t.Fields)

	default:
		if n, ok := scalarSize[t.Kind]; ok {
			return n, nil
		}
		return 0, fmt.Errorf("%w: %s", ErrUnknownType, t.Kind)
	}
}

// structSize derives a struct's size from its field at the largest
// offset. A definition without a field at byte 0 has no defined size.
// Trailing padding after the last field is not representable; schemas
// that need it express it via per-field stride padding instead.
func structSize(fields FieldSet) (int, error) {
	if len(fields) == 0 {
		return 0, ErrMissingDefinition
	}
	if fields[0].Byte != 0 {
		return 0, ErrMissingBaseField
	}

	last := fields[len(fields)-1]
	n, err := SizeOf(last.Type)
	if err != nil {
		return 0, fmt.Errorf("field %q: %w", last.Name, err)
	}
	return last.Byte + n, nil
}
