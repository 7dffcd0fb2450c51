package codec

import (
	"errors"
	"fmt"
)

// Codec errors
var (
	ErrEncodeFailed     = errors.New("codec: failed to encode value for storage")
	ErrDecodeFailed     = errors.New("codec: failed to decode stored value")
	ErrUnknownType      = errors.New("codec: unknown type identity")
	ErrUnregisteredType = errors.New("codec: type is not registered")
	ErrTypeMismatch     = errors.New("codec: stored type does not satisfy expected type")
	ErrNullPayload      = errors.New("codec: payload is null")
)

// Registry errors
var (
	ErrInvalidTag    = errors.New("codec: invalid type tag")
	ErrDuplicateTag  = errors.New("codec: tag already registered")
	ErrDuplicateType = errors.New("codec: type already registered")
	ErrOmitEmpty     = errors.New("codec: field would be omitted from payload")
)

// EncodeError reports a value that could not be written to storage.
type EncodeError struct {
	Value any
	Tag   string
	Err   error
}

func (e *EncodeError) Error() string {
	if e.Tag == "" {
		return fmt.Sprintf("%v: %T: %v", ErrEncodeFailed, e.Value, e.Err)
	}
	return fmt.Sprintf("%v: %s: %v", ErrEncodeFailed, e.Tag, e.Err)
}

// Unwrap exposes both ErrEncodeFailed and the underlying cause to errors.Is.
func (e *EncodeError) Unwrap() []error {
	return []error{ErrEncodeFailed, e.Err}
}

// DecodeError reports a stored string that could not be turned back into a
// value.
type DecodeError struct {
	Raw string
	Tag string
	Err error
}

func (e *DecodeError) Error() string {
	if e.Tag == "" {
		return fmt.Sprintf("%v: %v", ErrDecodeFailed, e.Err)
	}
	return fmt.Sprintf("%v: %s: %v", ErrDecodeFailed, e.Tag, e.Err)
}

// Unwrap exposes both ErrDecodeFailed and the underlying cause to errors.Is.
func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecodeFailed, e.Err}
}
