package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
)

// Envelope is the stored shape of an attribute: the tag of the wrapped
// value's concrete type and that value serialized on its own.
type Envelope struct {
	Type  string `json:"entityType"`
	Value string `json:"entityValue"`
}

var errTrailingData = errors.New("unexpected data after JSON value")

// writer serializes values the same way for the payload and the envelope:
// every field, no HTML escaping, no trailing newline.
type writer struct {
	indent string
}

func (w writer) write(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if w.indent != "" {
		enc.SetIndent("", w.indent)
	}
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// reader parses exactly one JSON value and refuses fields the target type
// does not declare. Object keys must match field names exactly;
// encoding/json alone would accept any casing.
type reader struct{}

func (reader) read(data string, v any) error {
	dec := json.NewDecoder(strings.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errTrailingData
	}
	return checkKeys(json.RawMessage(data), reflect.TypeOf(v))
}

var jsonUnmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()

// checkKeys walks raw alongside t and rejects any object key that is not
// the exact JSON name of a field. raw has already decoded into t, so shapes
// that do not line up (null, a string for a time.Time) are skipped.
func checkKeys(raw json.RawMessage, t reflect.Type) error {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if reflect.PointerTo(t).Implements(jsonUnmarshalerType) {
		return nil
	}

	switch t.Kind() {
	case reflect.Struct:
		var obj map[string]json.RawMessage
		if json.Unmarshal(raw, &obj) != nil {
			return nil
		}
		fields := jsonFields(t)
		for key, value := range obj {
			ft, ok := fields[key]
			if !ok {
				return fmt.Errorf("json: field %q does not match any field name exactly", key)
			}
			if err := checkKeys(value, ft); err != nil {
				return err
			}
		}

	case reflect.Map:
		var obj map[string]json.RawMessage
		if json.Unmarshal(raw, &obj) != nil {
			return nil
		}
		for _, value := range obj {
			if err := checkKeys(value, t.Elem()); err != nil {
				return err
			}
		}

	case reflect.Slice, reflect.Array:
		var items []json.RawMessage
		if json.Unmarshal(raw, &items) != nil {
			return nil
		}
		for _, item := range items {
			if err := checkKeys(item, t.Elem()); err != nil {
				return err
			}
		}
	}
	return nil
}

// jsonFields maps the exact JSON name of every decodable field of struct t,
// including promoted fields of untagged embedded structs, to its type
func jsonFields(t reflect.Type) map[string]reflect.Type {
	fields := make(map[string]reflect.Type)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")

		if f.Anonymous && name == "" {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				for k, v := range jsonFields(ft) {
					if _, ok := fields[k]; !ok {
						fields[k] = v
					}
				}
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		fields[name] = f.Type
	}
	return fields
}
