package handler

import (
	"log/slog"
	"net/http"

	"github.com/klauspost/compress/gzhttp"
)

// NewRouter wires every route and the middleware chain. events serves the
// SSE stream and may be nil. Exports are gzip-compressed for clients that
// accept it; the SSE stream never is.
func NewRouter(students *StudentHandler, events http.Handler, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	// Page
	mux.HandleFunc("GET /{$}", students.Index)
	mux.HandleFunc("POST /create", students.Create)

	// Student endpoints
	mux.HandleFunc("GET /api/students", students.ListStudents)
	mux.HandleFunc("POST /api/students", students.CreateStudent)
	mux.HandleFunc("GET /api/students/{id}", students.GetStudent)
	mux.HandleFunc("DELETE /api/students/{id}", students.DeleteStudent)
	mux.HandleFunc("GET /api/course-types", students.CourseTypes)

	// Import/export endpoints
	mux.HandleFunc("POST /api/import/yaml", students.ImportYAML)
	mux.Handle("GET /api/export/json", gzhttp.GzipHandler(http.HandlerFunc(students.ExportJSON)))
	mux.Handle("GET /api/export/yaml", gzhttp.GzipHandler(http.HandlerFunc(students.ExportYAML)))
	mux.Handle("GET /api/export/cbor", gzhttp.GzipHandler(http.HandlerFunc(students.ExportCBOR)))

	// SSE events endpoint
	if events != nil {
		mux.Handle("GET /events", events)
	}

	return Chain(mux,
		Recover(logger),
		CORS,
		Logger(logger),
	)
}
