// internal/decode/errors.go
package decode

import (
	"errors"
	"fmt"
)

// Decode errors are scoped to the field that raised them. Sibling
// fields in a struct keep decoding; the caller chooses whether a
// partial record is usable. Nothing here is ever turned into a
// default value.
var (
	ErrOutOfBounds     = errors.New("decode: field extends past end of buffer")
	ErrUnknownType     = errors.New("decode: unknown type")
	ErrUnsupported     = errors.New("decode: unsupported type")
	ErrInvalidBitIndex = errors.New("decode: bit index out of range")
)

// FieldError wraps a failure while decoding one member of a struct so
// the caller can report which member was dropped.
type FieldError struct {
	Name string
	Err  error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("decode: field %q: %v", e.Name, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }
