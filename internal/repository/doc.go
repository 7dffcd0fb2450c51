// Package repository defines the data access interfaces for coursebook.
//
// This package provides the repository abstraction layer for persisting
// and retrieving students. The actual implementation is in the sqlite
// subpackage.
//
// # Course Column
//
// A student's course is stored in a single TEXT column as a codec envelope
// (type tag plus serialized value). Implementations convert that column
// only through codec.Attribute and never inspect the envelope themselves.
//
// # SQLite Implementation
//
// The sqlite implementation uses modernc.org/sqlite with WAL mode. It
// creates its schema on open and is tested against in-memory databases.
package repository
