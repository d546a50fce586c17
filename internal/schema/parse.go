// internal/schema/parse.go
package schema

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// maxDepth bounds nested struct definitions. The JSON form cannot
// express true cycles, but a runaway generator producing deeply nested
// definitions should fail loudly instead of recursing without bound.
const maxDepth = 16

// scalarKind resolves a lowercased primitive name.
var scalarKind = map[string]Kind{
	"bool":          KindBool,
	"byte":          KindByte,
	"char":          KindChar,
	"word":          KindWord,
	"dword":         KindDWord,
	"lword":         KindLWord,
	"usint":         KindUSInt,
	"uint":          KindUInt,
	"udint":         KindUDInt,
	"ulint":         KindULInt,
	"sint":          KindSInt,
	"int":           KindInt,
	"dint":          KindDInt,
	"lint":          KindLInt,
	"real":          KindReal,
	"lreal":         KindLReal,
	"time":          KindTime,
	"ltime":         KindLTime,
	"date_and_time": KindDateAndTime,
	"date":          KindDate,
	"time_of_day":   KindTimeOfDay,
}

// DefaultStringLen is the payload capacity of an unparameterized STRING
// (wire size 256 including the two header bytes).
const DefaultStringLen = 254

var dimRange = regexp.MustCompile(`^(\d+)\.\.(\d+)$`)
var dimPlain = regexp.MustCompile(`^(\d+)$`)

// rawItem mirrors one register-map entry on the wire.
// "defintion" is a misspelling that shipped in early map documents;
// maps in the field still use it, so both spellings are accepted.
type rawItem struct {
	Name             string             `json:"name"`
	Type             string             `json:"type"`
	Definition       map[string]rawItem `json:"definition"`
	LegacyDefinition map[string]rawItem `json:"defintion"`
	Offset           int                `json:"offset"`
}

func (it rawItem) definition() map[string]rawItem {
	if it.Definition != nil {
		return it.Definition
	}
	return it.LegacyDefinition
}

// Load parses a JSON register-map document into a Schema.
//
// The document maps block numbers to field sets keyed by "<byte>.<bit>"
// offset strings. A legacy document wrapped in a single top-level "DB"
// object is unwrapped transparently.
func Load(doc []byte) (Schema, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(doc, &top); err != nil {
		return nil, fmt.Errorf("schema: parse map document: %w", err)
	}

	if raw, ok := top["DB"]; ok && len(top) == 1 {
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, fmt.Errorf("schema: parse DB wrapper: %w", err)
		}
		top = inner
	}

	out := make(Schema, len(top))
	for key, raw := range top {
		db, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("schema: block id %q is not numeric", key)
		}

		var items map[string]rawItem
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("schema: block %d: %w", db, err)
		}

		fields, err := parseFieldSet(items, 0)
		if err != nil {
			return nil, fmt.Errorf("schema: block %d: %w", db, err)
		}
		out[db] = fields
	}
	return out, nil
}

func parseFieldSet(items map[string]rawItem, depth int) (FieldSet, error) {
	if depth > maxDepth {
		return nil, ErrTooDeep
	}

	fields := make(FieldSet, 0, len(items))
	for key, item := range items {
		byteOff, bitOff, err := parseOffsetKey(key)
		if err != nil {
			return nil, err
		}

		t, err := parseType(item, depth)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", item.Name, err)
		}

		if bitOff != 0 && t.Kind != KindBool {
			return nil, fmt.Errorf("field %q at %s: %w", item.Name, key, ErrInvalidBitIndex)
		}

		fields = append(fields, Field{
			Name: item.Name,
			Byte: byteOff,
			Bit:  bitOff,
			Type: t,
		})
	}

	sort.Slice(fields, func(i, j int) bool {
		if fields[i].Byte != fields[j].Byte {
			return fields[i].Byte < fields[j].Byte
		}
		return fields[i].Bit < fields[j].Bit
	})
	return fields, nil
}

// parseOffsetKey splits "<byte>.<bit>" (or a bare "<byte>") into its
// numeric parts. Bit must be a position within one byte.
func parseOffsetKey(key string) (int, int, error) {
	bytePart := key
	bitPart := ""
	if i := strings.IndexByte(key, '.'); i >= 0 {
		bytePart, bitPart = key[:i], key[i+1:]
	}

	byteOff, err := strconv.Atoi(bytePart)
	if err != nil || byteOff < 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadOffsetKey, key)
	}

	bitOff := 0
	if bitPart != "" {
		bitOff, err = strconv.Atoi(bitPart)
		if err != nil || bitOff < 0 || bitOff > 7 {
			return 0, 0, fmt.Errorf("%w: %q", ErrBadOffsetKey, key)
		}
	}
	return byteOff, bitOff, nil
}

// parseType resolves one item's type expression.
//
// Accepted forms: scalar names ("Int", "LReal"), "String" (default
// capacity), "Struct" with a definition, and bracketed dimensions:
// "Int[10]" or "Int[0..9]" arrays, "Bool[16]" packed bit arrays,
// "String[254]" bounded strings, "String[8][4]" arrays of strings and
// "Struct[0..20]" arrays of structs. The item's "offset" value is extra
// padding inserted between consecutive array elements.
func parseType(item rawItem, depth int) (*Type, error) {
	expr := strings.ToLower(strings.TrimSpace(item.Type))

	if k, ok := scalarKind[expr]; ok {
		return &Type{Kind: k}, nil
	}
	if expr == "string" {
		return &Type{Kind: KindString, MaxLen: DefaultStringLen}, nil
	}
	if expr == "struct" {
		fields, err := parseDefinition(item, depth)
		if err != nil {
			return nil, err
		}
		return &Type{Kind: KindStruct, Fields: fields}, nil
	}

	base, dims, ok := splitDims(expr)
	if !ok || len(dims) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, item.Type)
	}

	// String[maxlen][count]: array of bounded strings.
	if base == "string" && len(dims) == 2 {
		maxLen, err := parseDim(dims[0])
		if err != nil {
			return nil, err
		}
		count, err := parseDim(dims[1])
		if err != nil {
			return nil, err
		}
		return &Type{
			Kind:  KindArray,
			Elem:  &Type{Kind: KindString, MaxLen: maxLen},
			Count: count,
			Pad:   item.Offset,
		}, nil
	}

	if len(dims) != 1 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, item.Type)
	}
	dim, err := parseDim(dims[0])
	if err != nil {
		return nil, err
	}

	switch base {
	case "string":
		// String[n] is a bounded string, not an array.
		return &Type{Kind: KindString, MaxLen: dim}, nil

	case "bool":
		return &Type{Kind: KindBitArray, Count: dim}, nil

	case "struct":
		fields, err := parseDefinition(item, depth)
		if err != nil {
			return nil, err
		}
		return &Type{
			Kind:  KindArray,
			Elem:  &Type{Kind: KindStruct, Fields: fields},
			Count: dim,
			Pad:   item.Offset,
		}, nil

	default:
		k, ok := scalarKind[base]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownType, item.Type)
		}
		return &Type{
			Kind:  KindArray,
			Elem:  &Type{Kind: k},
			Count: dim,
			Pad:   item.Offset,
		}, nil
	}
}

func parseDefinition(item rawItem, depth int) (FieldSet, error) {
	def := item.definition()
	if def == nil {
		return nil, ErrMissingDefinition
	}
	fields, err := parseFieldSet(def, depth+1)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrMissingDefinition
	}
	if fields[0].Byte != 0 {
		return nil, ErrMissingBaseField
	}
	return fields, nil
}

// splitDims separates "int[0..9]" into base "int" and dims ["0..9"].
func splitDims(expr string) (string, []string, bool) {
	i := strings.IndexByte(expr, '[')
	if i < 0 {
		return expr, nil, true
	}
	base := expr[:i]
	rest := expr[i:]

	var dims []string
	for rest != "" {
		if rest[0] != '[' {
			return "", nil, false
		}
		j := strings.IndexByte(rest, ']')
		if j < 0 {
			return "", nil, false
		}
		dims = append(dims, rest[1:j])
		rest = rest[j+1:]
	}
	return base, dims, true
}

// parseDim evaluates an array dimension: "8" has eight elements, and
// the inclusive range "0..7" likewise.
func parseDim(dim string) (int, error) {
	if m := dimRange.FindStringSubmatch(dim); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		if hi < lo {
			return 0, fmt.Errorf("%w: %q", ErrBadDimension, dim)
		}
		return hi - lo + 1, nil
	}
	if m := dimPlain.FindStringSubmatch(dim); m != nil {
		n, _ := strconv.Atoi(m[1])
		if n == 0 {
			return 0, fmt.Errorf("%w: %q", ErrBadDimension, dim)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadDimension, dim)
}
