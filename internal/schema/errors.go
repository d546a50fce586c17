// internal/schema/errors.go
package schema

import "errors"

// Schema errors are detected while loading or sizing the register map,
// before any device access. They are fatal for the affected block and
// are never converted into a default value.
var (
	ErrUnknownType       = errors.New("schema: unknown type")
	ErrMissingDefinition = errors.New("schema: struct type requires a definition")
	ErrMissingBaseField  = errors.New("schema: struct definition has no field at byte 0")
	ErrInvalidBitIndex   = errors.New("schema: bit offset is only valid for bool fields")
	ErrBadOffsetKey      = errors.New("schema: malformed offset key")
	ErrBadDimension      = errors.New("schema: malformed array dimension")
	ErrTooDeep           = errors.New("schema: definition nested too deeply")
)
