// Package service implements business logic for the coursebook application.
//
// StudentService sits between the HTTP handlers and the repository. It
// validates students, turns submitted course payloads into domain subjects
// through the codec registry, renders roster exports and publishes change
// events.
//
// # Event System
//
// Creations and deletions are published on an EventBus. The hub forwards
// them to connected clients as Server-Sent Events (SSE).
package service
