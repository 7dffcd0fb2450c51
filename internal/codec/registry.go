package codec

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// Registry maps stable type tags to concrete Go types.
//
// Register is expected at start-up; lookups are safe from any goroutine.
type Registry struct {
	mu     sync.RWMutex
	byTag  map[string]reflect.Type
	byType map[reflect.Type]string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		byTag:  make(map[string]reflect.Type),
		byType: make(map[reflect.Type]string),
	}
}

// Register binds tag to the concrete type of sample. sample may be a value
// or a pointer; decoding produces the same form that was registered.
func (r *Registry) Register(tag string, sample any) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return fmt.Errorf("%w: tag is empty", ErrInvalidTag)
	}
	if sample == nil {
		return fmt.Errorf("%w: %s: sample is nil", ErrInvalidTag, tag)
	}

	t := reflect.TypeOf(sample)
	if t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Pointer {
		return fmt.Errorf("%w: %s: %s", ErrInvalidTag, tag, t)
	}
	if err := checkFieldCompleteness(baseType(t), make(map[reflect.Type]bool)); err != nil {
		return fmt.Errorf("register %s: %w", tag, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byTag[tag]; ok {
		return fmt.Errorf("%w: %s is bound to %s", ErrDuplicateTag, tag, existing)
	}
	if existing, ok := r.lookupTypeLocked(t); ok {
		return fmt.Errorf("%w: %s is bound to %s", ErrDuplicateType, t, existing)
	}

	r.byTag[tag] = t
	r.byType[t] = tag
	return nil
}

// MustRegister is Register for package initialisation; it panics on error.
func (r *Registry) MustRegister(tag string, sample any) {
	if err := r.Register(tag, sample); err != nil {
		panic(err)
	}
}

// Lookup returns the type registered under tag
func (r *Registry) Lookup(tag string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byTag[tag]
	return t, ok
}

// TagOf returns the tag of v's concrete type. A pointer to a registered
// value type (and the reverse) resolves to the same tag.
func (r *Registry) TagOf(v any) (string, error) {
	if v == nil {
		return "", fmt.Errorf("%w: <nil>", ErrUnregisteredType)
	}
	t := reflect.TypeOf(v)

	r.mu.RLock()
	defer r.mu.RUnlock()
	if tag, ok := r.lookupTypeLocked(t); ok {
		return tag, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnregisteredType, t)
}

// Tags returns every registered tag in sorted order
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tags := make([]string, 0, len(r.byTag))
	for tag := range r.byTag {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// New returns a pointer to a fresh zero value of the base type registered
// under tag, ready to be decoded into, along with the registered type.
func (r *Registry) New(tag string) (reflect.Value, reflect.Type, error) {
	t, ok := r.Lookup(tag)
	if !ok {
		return reflect.Value{}, nil, fmt.Errorf("%w: %q", ErrUnknownType, tag)
	}
	return reflect.New(baseType(t)), t, nil
}

func (r *Registry) lookupTypeLocked(t reflect.Type) (string, bool) {
	if tag, ok := r.byType[t]; ok {
		return tag, true
	}
	if t.Kind() == reflect.Pointer {
		tag, ok := r.byType[t.Elem()]
		return tag, ok
	}
	tag, ok := r.byType[reflect.PointerTo(t)]
	return tag, ok
}

func baseType(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		return t.Elem()
	}
	return t
}

// checkFieldCompleteness rejects struct types whose JSON form could drop a
// declared attribute.
func checkFieldCompleteness(t reflect.Type, seen map[reflect.Type]bool) error {
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Map:
		return checkFieldCompleteness(t.Elem(), seen)
	case reflect.Struct:
	default:
		return nil
	}

	if seen[t] {
		return nil
	}
	seen[t] = true

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() && !f.Anonymous {
			continue
		}
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		if _, opts, found := strings.Cut(tag, ","); found {
			for _, opt := range strings.Split(opts, ",") {
				if opt == "omitempty" || opt == "omitzero" {
					return fmt.Errorf("%w: %s.%s has %s", ErrOmitEmpty, t, f.Name, opt)
				}
			}
		}
		if err := checkFieldCompleteness(f.Type, seen); err != nil {
			return err
		}
	}
	return nil
}
