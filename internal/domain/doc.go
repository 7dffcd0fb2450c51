// Package domain defines the core types of the coursebook application.
//
// # Core Types
//
// Student is the persisted record: a name and the one subject the student
// is enrolled in.
//
// Subject is anything a student can be enrolled in. Course and Seminar are
// the concrete subjects; a student's subject is stored in one column and
// comes back as whichever of them was written.
//
// SubjectTypes lists the concrete subjects under their stable storage tags.
// The tags are part of the stored data and must not change once rows exist.
//
// # Design Principles
//
// - No database or external dependencies
// - Subject payloads serialize every field, so no omitempty tags
package domain
