package codec

import (
	"database/sql"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
)

// Attribute converts values expected to satisfy X to and from a single
// nullable text column.
//
// An Attribute holds no per-call state and is safe for concurrent use.
type Attribute[X any] struct {
	registry *Registry
	logger   *slog.Logger
	reader   reader
	writer   writer
	pretty   writer
}

// NewAttribute creates a codec bound to X over the types in registry.
// A nil logger falls back to slog.Default().
func NewAttribute[X any](registry *Registry, logger *slog.Logger) *Attribute[X] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Attribute[X]{
		registry: registry,
		logger:   logger,
		pretty:   writer{indent: "  "},
	}
}

// Registry returns the registry this attribute resolves tags against
func (a *Attribute[X]) Registry() *Registry {
	return a.registry
}

// Encode wraps value in an Envelope and serializes it. An absent value (nil
// pointer, interface, map, slice) encodes to an invalid NullString.
func (a *Attribute[X]) Encode(value X) (sql.NullString, error) {
	if isAbsent(value) {
		return sql.NullString{}, nil
	}

	concrete := any(value)
	tag, err := a.registry.TagOf(concrete)
	if err != nil {
		return sql.NullString{}, a.encodeFailed(value, "", err)
	}

	payload, err := a.writer.write(concrete)
	if err != nil {
		return sql.NullString{}, a.encodeFailed(value, tag, fmt.Errorf("payload: %w", err))
	}

	data, err := a.writer.write(Envelope{Type: tag, Value: payload})
	if err != nil {
		return sql.NullString{}, a.encodeFailed(value, tag, fmt.Errorf("envelope: %w", err))
	}

	return sql.NullString{String: data, Valid: true}, nil
}

// Decode reverses Encode. An invalid NullString decodes to the zero X with
// a nil error; every failure is returned as a *DecodeError.
func (a *Attribute[X]) Decode(raw sql.NullString) (X, error) {
	var zero X
	if !raw.Valid {
		return zero, nil
	}

	var env Envelope
	if err := a.reader.read(raw.String, &env); err != nil {
		return zero, a.decodeFailed(raw.String, "", fmt.Errorf("envelope: %w", err))
	}
	if env.Type == "" {
		return zero, a.decodeFailed(raw.String, "", fmt.Errorf("%w: empty entityType", ErrUnknownType))
	}

	value, err := a.DecodePayload(env.Type, env.Value)
	if err != nil {
		return zero, a.decodeFailed(raw.String, env.Type, err)
	}
	return value, nil
}

// DecodePayload deserializes a bare payload into the type registered under
// tag and narrows it to X. A null payload is an error, never a zero value.
// Failures are returned unwrapped and not logged.
func (a *Attribute[X]) DecodePayload(tag, payload string) (X, error) {
	var zero X

	ptr, registered, err := a.registry.New(tag)
	if err != nil {
		return zero, err
	}
	if strings.TrimSpace(payload) == "null" {
		return zero, fmt.Errorf("payload: %w", ErrNullPayload)
	}
	if err := a.reader.read(payload, ptr.Interface()); err != nil {
		return zero, fmt.Errorf("payload: %w", err)
	}

	primary, alternate := ptr.Elem(), ptr
	if registered.Kind() == reflect.Pointer {
		primary, alternate = ptr, ptr.Elem()
	}
	if v, ok := primary.Interface().(X); ok {
		return v, nil
	}
	if v, ok := alternate.Interface().(X); ok {
		return v, nil
	}
	return zero, fmt.Errorf("%w: %s is %s, want %s",
		ErrTypeMismatch, tag, registered, reflect.TypeOf((*X)(nil)).Elem())
}

// ToStorage is the write half of the column contract
func (a *Attribute[X]) ToStorage(value X) (sql.NullString, error) {
	return a.Encode(value)
}

// FromStorage is the read half of the column contract. A column that cannot
// be decoded is logged and read as absent.
func (a *Attribute[X]) FromStorage(raw sql.NullString) X {
	value, _ := a.Decode(raw)
	return value
}

// Pretty renders value as indented JSON using its concrete type, without
// the envelope. An absent value renders as "null".
func (a *Attribute[X]) Pretty(value X) (string, error) {
	if isAbsent(value) {
		return "null", nil
	}
	out, err := a.pretty.write(any(value))
	if err != nil {
		return "", fmt.Errorf("render %T: %w", value, err)
	}
	return out, nil
}

func (a *Attribute[X]) encodeFailed(value X, tag string, err error) error {
	a.logger.Error("failed to encode attribute",
		"value", fmt.Sprintf("%+v", value),
		"go_type", fmt.Sprintf("%T", value),
		"type", tag,
		"error", err,
	)
	return &EncodeError{Value: value, Tag: tag, Err: err}
}

func (a *Attribute[X]) decodeFailed(raw, tag string, err error) error {
	a.logger.Error("failed to decode attribute",
		"raw", raw,
		"type", tag,
		"error", err,
	)
	return &DecodeError{Raw: raw, Tag: tag, Err: err}
}

func isAbsent(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
