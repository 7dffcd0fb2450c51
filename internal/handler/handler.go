package handler

import (
	"bytes"
	"embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"coursebook/internal/domain"
	"coursebook/internal/service"

	"github.com/zeebo/blake3"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

// StudentHandler handles student page and API requests
type StudentHandler struct {
	svc    *service.StudentService
	logger *slog.Logger
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(svc *service.StudentService, logger *slog.Logger) *StudentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StudentHandler{svc: svc, logger: logger}
}

// Error response structure
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// StudentResponse is the API shape of a student
type StudentResponse struct {
	ID         int64          `json:"id"`
	FirstName  string         `json:"first_name"`
	LastName   string         `json:"last_name"`
	CourseType string         `json:"course_type"`
	Course     domain.Subject `json:"course"`
	CreatedAt  time.Time      `json:"created_at"`
}

// CreateStudentRequest is the body of POST /api/students
type CreateStudentRequest struct {
	FirstName  string          `json:"first_name"`
	LastName   string          `json:"last_name"`
	CourseType string          `json:"course_type"`
	Course     json.RawMessage `json:"course"`
}

type indexRow struct {
	ID         int64
	FirstName  string
	LastName   string
	CourseHTML template.HTML
}

// Index renders the student list and the create form
func (h *StudentHandler) Index(w http.ResponseWriter, r *http.Request) {
	students, err := h.svc.ListStudents(r.Context())
	if err != nil {
		h.logger.Error("failed to list students", "error", err)
		http.Error(w, "Failed to list students", http.StatusInternalServerError)
		return
	}

	rows := make([]indexRow, 0, len(students))
	for _, s := range students {
		rows = append(rows, indexRow{
			ID:         s.ID,
			FirstName:  s.FirstName,
			LastName:   s.LastName,
			CourseHTML: h.highlightJSON(h.svc.RenderCourse(s)),
		})
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, struct{ Students []indexRow }{rows}); err != nil {
		h.logger.Error("failed to render index", "error", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// Create handles the index form and redirects back to the index
func (h *StudentHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	var course domain.Subject
	if name := strings.TrimSpace(r.PostForm.Get("course_name")); name != "" {
		credits := 0
		if raw := strings.TrimSpace(r.PostForm.Get("course_credits")); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				http.Error(w, "Credits must be a non-negative number", http.StatusBadRequest)
				return
			}
			credits = n
		}
		course = domain.NewCourse(name, credits)
	}

	student := domain.NewStudent(r.PostForm.Get("first_name"), r.PostForm.Get("last_name"), course)
	if err := h.svc.CreateStudent(r.Context(), student); err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("failed to create student", "error", err)
		}
		http.Error(w, err.Error(), status)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ListStudents returns all students
func (h *StudentHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.svc.ListStudents(r.Context())
	if err != nil {
		h.logger.Error("failed to list students", "error", err)
		h.writeError(w, "Failed to list students", err.Error(), http.StatusInternalServerError)
		return
	}

	out := make([]StudentResponse, 0, len(students))
	for i := range students {
		resp, err := h.toResponse(&students[i])
		if err != nil {
			h.logger.Error("failed to describe student", "student_id", students[i].ID, "error", err)
			h.writeError(w, "Failed to list students", err.Error(), http.StatusInternalServerError)
			return
		}
		out = append(out, resp)
	}

	h.writeJSON(w, out, http.StatusOK)
}

// GetStudent returns a single student
func (h *StudentHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.studentID(w, r)
	if !ok {
		return
	}

	student, err := h.svc.GetStudent(r.Context(), id)
	if err != nil {
		h.fail(w, "Failed to get student", err)
		return
	}

	resp, err := h.toResponse(student)
	if err != nil {
		h.fail(w, "Failed to get student", err)
		return
	}
	h.writeJSON(w, resp, http.StatusOK)
}

// CreateStudent creates a student from a JSON body
func (h *StudentHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var req CreateStudentRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	course, err := h.svc.ParseCourse(req.CourseType, req.Course)
	if err != nil {
		h.fail(w, "Invalid course", err)
		return
	}

	student := domain.NewStudent(req.FirstName, req.LastName, course)
	if err := h.svc.CreateStudent(r.Context(), student); err != nil {
		h.fail(w, "Failed to create student", err)
		return
	}

	resp, err := h.toResponse(student)
	if err != nil {
		h.fail(w, "Failed to create student", err)
		return
	}
	h.writeJSON(w, resp, http.StatusCreated)
}

// DeleteStudent deletes a student
func (h *StudentHandler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.studentID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteStudent(r.Context(), id); err != nil {
		h.fail(w, "Failed to delete student", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CourseTypes lists the tags accepted as course_type
func (h *StudentHandler) CourseTypes(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.svc.CourseTypes(), http.StatusOK)
}

// ImportYAML creates the students in a YAML roster body
func (h *StudentHandler) ImportYAML(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, "Failed to read request body", err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.svc.ImportYAML(r.Context(), data)
	if err != nil {
		h.fail(w, "Failed to import YAML", err)
		return
	}

	h.writeJSON(w, result, http.StatusOK)
}

// ExportJSON exports the roster as JSON
func (h *StudentHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.ExportJSON(r.Context())
	if err != nil {
		h.logger.Error("failed to export JSON", "error", err)
		h.writeError(w, "Failed to export JSON", err.Error(), http.StatusInternalServerError)
		return
	}

	writeExport(w, r, data, "application/json", "students.json")
}

// ExportYAML exports the roster as YAML
func (h *StudentHandler) ExportYAML(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.svc.ExportYAML(r.Context(), &buf); err != nil {
		h.logger.Error("failed to export YAML", "error", err)
		h.writeError(w, "Failed to export YAML", err.Error(), http.StatusInternalServerError)
		return
	}

	writeExport(w, r, buf.Bytes(), "application/x-yaml", "students.yaml")
}

// ExportCBOR exports the roster as CBOR
func (h *StudentHandler) ExportCBOR(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.svc.ExportCBOR(r.Context(), &buf); err != nil {
		h.logger.Error("failed to export CBOR", "error", err)
		h.writeError(w, "Failed to export CBOR", err.Error(), http.StatusInternalServerError)
		return
	}

	writeExport(w, r, buf.Bytes(), "application/cbor", "students.cbor")
}

// writeExport sends an export as a download tagged with a content hash, and
// answers 304 when the client already holds that version
func writeExport(w http.ResponseWriter, r *http.Request, data []byte, contentType, filename string) {
	sum := blake3.Sum256(data)
	etag := `"` + hex.EncodeToString(sum[:16]) + `"`

	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.Write(data)
}

func (h *StudentHandler) toResponse(s *domain.Student) (StudentResponse, error) {
	tag, err := h.svc.CourseTag(s.Course)
	if err != nil {
		return StudentResponse{}, err
	}
	return StudentResponse{
		ID:         s.ID,
		FirstName:  s.FirstName,
		LastName:   s.LastName,
		CourseType: tag,
		Course:     s.Course,
		CreatedAt:  s.CreatedAt,
	}, nil
}

func (h *StudentHandler) studentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		h.writeError(w, "Invalid student ID", "Student ID must be a positive integer", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// fail writes err with the status its kind maps to
func (h *StudentHandler) fail(w http.ResponseWriter, msg string, err error) {
	status := statusFor(err)
	switch status {
	case http.StatusNotFound:
		msg = "Not found"
	case http.StatusInternalServerError:
		h.logger.Error(strings.ToLower(msg), "error", err)
	}
	h.writeError(w, msg, err.Error(), status)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *StudentHandler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON", "error", err)
	}
}

func (h *StudentHandler) writeError(w http.ResponseWriter, error, details string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Details: details,
	}); err != nil {
		h.logger.Error("failed to encode error response", "error", err)
	}
}
