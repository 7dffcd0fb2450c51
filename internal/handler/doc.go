// Package handler implements HTTP request handlers for coursebook.
//
// # Handlers
//
// StudentHandler serves the HTML index with its create form, the JSON
// student API and the roster exports.
//
// Middleware provides panic recovery, CORS and request logging.
//
// # Response Format
//
// Success responses return JSON data with appropriate status codes (200, 201).
// Error responses return JSON with {error, details} structure.
//
// A student's course is sent as a course_type tag next to the course
// object, the same pair a client posts when creating a student.
package handler
