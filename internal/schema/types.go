// internal/schema/types.go
package schema

// Kind enumerates every type form a field can carry.
// The register map is parsed into Kinds exactly once at load time;
// all later dispatch is an exhaustive switch, never string matching.
type Kind int

const (
	KindInvalid Kind = iota

	// ---- SCALARS ----

	KindBool
	KindByte
	KindChar
	KindWord
	KindDWord
	KindLWord
	KindUSInt
	KindUInt
	KindUDInt
	KindULInt
	KindSInt
	KindInt
	KindDInt
	KindLInt
	KindReal
	KindLReal
	KindString
	KindTime
	KindLTime
	KindDateAndTime

	// Sized but not decodable. The catalog knows their widths so span
	// computation succeeds; the decoder reports them as unsupported.
	KindDate
	KindTimeOfDay

	// ---- COMPOSITES ----

	KindArray
	KindBitArray
	KindStruct
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "Bool"
	case KindByte:
		return "Byte"
	case KindChar:
		return "Char"
	case KindWord:
		return "Word"
	case KindDWord:
		return "DWord"
	case KindLWord:
		return "LWord"
	case KindUSInt:
		return "USInt"
	case KindUInt:
		return "UInt"
	case KindUDInt:
		return "UDInt"
	case KindULInt:
		return "ULInt"
	case KindSInt:
		return "SInt"
	case KindInt:
		return "Int"
	case KindDInt:
		return "DInt"
	case KindLInt:
		return "LInt"
	case KindReal:
		return "Real"
	case KindLReal:
		return "LReal"
	case KindString:
		return "String"
	case KindTime:
		return "Time"
	case KindLTime:
		return "LTime"
	case KindDateAndTime:
		return "Date_And_Time"
	case KindDate:
		return "Date"
	case KindTimeOfDay:
		return "Time_Of_Day"
	case KindArray:
		return "Array"
	case KindBitArray:
		return "BitArray"
	case KindStruct:
		return "Struct"
	default:
		return "Invalid"
	}
}

// Type is a parsed type expression. Scalar kinds use none of the extra
// fields. Recursive cases (arrays, structs) are boxed behind pointers,
// so arbitrarily nested definitions stay bounded on the stack.
type Type struct {
	Kind Kind

	// KindString: payload capacity. Wire size is MaxLen+2 (one byte
	// declared capacity, one byte actual length).
	MaxLen int

	// KindArray: element type, repetition count and extra padding bytes
	// between consecutive elements. KindBitArray uses Count only.
	Elem  *Type
	Count int
	Pad   int

	// KindStruct: member fields, ascending offset order.
	Fields FieldSet
}

// Field is one named value at a byte.bit position within a data block
// or a struct definition. Bit is nonzero only for Bool fields.
type Field struct {
	Name string
	Byte int
	Bit  int
	Type *Type
}

// FieldSet holds a definition's fields sorted ascending by byte offset,
// then bit. Struct sizing depends on this order: the last field is the
// one at the numerically largest offset.
type FieldSet []Field

// Schema maps a data block number to its top-level fields.
type Schema map[int]FieldSet

// Blocks returns the block numbers in ascending order.
func (s Schema) Blocks() []int {
	out := make([]int, 0, len(s))
	for db := range s {
		out = append(out, db)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
