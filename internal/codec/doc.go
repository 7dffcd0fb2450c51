// Package codec stores values of varying concrete types in a single text
// column and reconstructs them as their original type on load.
//
// # Envelope
//
// A stored value is an Envelope: the registered type tag of the value's
// concrete type plus the value serialized on its own, as a string.
//
//	{"entityType":"course.v1","entityValue":"{\"name\":\"Algebra I\",\"credits\":3}"}
//
// entityValue is an escaped string, not a nested object. It is serialized
// independently using the concrete type, so the envelope never has to know
// what it carries.
//
// # Registry
//
// Type identity is an explicit, stable tag chosen at registration time, not
// the Go type name. Types are registered once at start-up:
//
//	reg := codec.NewRegistry()
//	reg.MustRegister("course.v1", domain.Course{})
//
// Decoding resolves the tag through the registry only. An unknown tag is a
// decode failure; nothing is ever instantiated by name.
//
// Registration rejects struct fields tagged omitempty or omitzero: every
// declared attribute must appear in the payload, even when empty.
//
// # Attribute
//
// Attribute[X] is a codec bound to the type the caller expects back. X is
// usually an interface satisfied by every registered type that may appear
// in the column.
//
//	courses := codec.NewAttribute[domain.Subject](reg, logger)
//	col, err := courses.ToStorage(student.Course)
//	student.Course = courses.FromStorage(col)
//
// Decode reports failures as *DecodeError. FromStorage logs the same
// failures and returns the zero value, for callers that treat an unreadable
// column like an empty one.
//
// # Export
//
// JSONExporter, YAMLExporter and CBORExporter write a student roster,
// rendering each student's course as its tag and value.
package codec
