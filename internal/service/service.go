package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"coursebook/internal/codec"
	"coursebook/internal/domain"
	"coursebook/internal/loader"
	"coursebook/internal/repository"
)

var (
	// ErrNotFound is returned when a student does not exist
	ErrNotFound = repository.ErrNotFound
	// ErrInvalidInput wraps every validation failure
	ErrInvalidInput = errors.New("invalid input")
)

// StudentService provides business logic for student records
type StudentService struct {
	repo     repository.Repository
	courses  *codec.Attribute[domain.Subject]
	jsonExp  codec.Exporter
	yamlExp  codec.Exporter
	cborExp  codec.Exporter
	eventBus *EventBus
	logger   *slog.Logger
	now      func() time.Time
}

// NewStudentService creates a new student service
func NewStudentService(repo repository.Repository, courses *codec.Attribute[domain.Subject], eventBus *EventBus, logger *slog.Logger) *StudentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &StudentService{
		repo:     repo,
		courses:  courses,
		jsonExp:  codec.NewJSONExporter(courses.Registry()),
		yamlExp:  codec.NewYAMLExporter(courses.Registry()),
		cborExp:  codec.NewCBORExporter(courses.Registry()),
		eventBus: eventBus,
		logger:   logger,
		now:      time.Now,
	}
}

// ListStudents returns all students ordered by id
func (s *StudentService) ListStudents(ctx context.Context) ([]domain.Student, error) {
	return s.repo.ListStudents(ctx)
}

// GetStudent retrieves a single student by ID
func (s *StudentService) GetStudent(ctx context.Context, id int64) (*domain.Student, error) {
	student, err := s.repo.GetStudent(ctx, id)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, fmt.Errorf("student %d: %w", id, ErrNotFound)
	}
	return student, nil
}

// CreateStudent validates and stores a new student
func (s *StudentService) CreateStudent(ctx context.Context, student *domain.Student) error {
	student.FirstName = strings.TrimSpace(student.FirstName)
	student.LastName = strings.TrimSpace(student.LastName)
	if err := student.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	student.CreatedAt = s.now().UTC()
	if err := s.repo.CreateStudent(ctx, student); err != nil {
		return err
	}

	s.logger.Info("student created", "student_id", student.ID, "name", student.FullName())
	s.eventBus.Publish(Event{
		Type:    EventStudentCreated,
		Payload: map[string]interface{}{"student_id": student.ID, "name": student.FullName()},
	})

	return nil
}

// DeleteStudent removes a student
func (s *StudentService) DeleteStudent(ctx context.Context, id int64) error {
	if err := s.repo.DeleteStudent(ctx, id); err != nil {
		return err
	}

	s.logger.Info("student deleted", "student_id", id)
	s.eventBus.Publish(Event{
		Type:    EventStudentDeleted,
		Payload: map[string]int64{"student_id": id},
	})

	return nil
}

// CourseTypes returns the tags a course may be submitted under
func (s *StudentService) CourseTypes() []string {
	return s.courses.Registry().Tags()
}

// CourseTag returns the storage tag of course, or "" for no course
func (s *StudentService) CourseTag(course domain.Subject) (string, error) {
	if course == nil {
		return "", nil
	}
	return s.courses.Registry().TagOf(course)
}

// ParseCourse builds a subject from a submitted tag and JSON payload. An
// empty tag with an empty or null payload means no course.
func (s *StudentService) ParseCourse(tag string, payload []byte) (domain.Subject, error) {
	tag = strings.TrimSpace(tag)
	trimmed := bytes.TrimSpace(payload)
	if tag == "" {
		if len(trimmed) == 0 || string(trimmed) == "null" {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: course_type is required with a course", ErrInvalidInput)
	}

	course, err := s.courses.DecodePayload(tag, string(trimmed))
	if err != nil {
		return nil, fmt.Errorf("%w: course: %w", ErrInvalidInput, err)
	}
	return course, nil
}

// RenderCourse returns the indented JSON view of a student's course
func (s *StudentService) RenderCourse(student domain.Student) string {
	out, err := s.courses.Pretty(student.Course)
	if err != nil {
		s.logger.Warn("failed to render course", "student_id", student.ID, "error", err)
		return ""
	}
	return out
}

// ImportResult represents the result of an import operation
type ImportResult struct {
	Created int `json:"created"`
}

// ImportYAML creates every student in a YAML roster. Every entry is parsed
// and validated before the first one is stored, so an invalid roster stores
// nothing. Students are stored one at a time: a storage failure part way
// keeps the students already created and reports how many there were.
func (s *StudentService) ImportYAML(ctx context.Context, data []byte) (*ImportResult, error) {
	students, err := loader.ParseYAML(data, s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return s.importStudents(ctx, students)
}

// ImportFile creates every student in the YAML roster at path
func (s *StudentService) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	students, err := loader.LoadYAML(path, s)
	if err != nil {
		return nil, err
	}
	return s.importStudents(ctx, students)
}

func (s *StudentService) importStudents(ctx context.Context, students []*domain.Student) (*ImportResult, error) {
	result := &ImportResult{}
	for _, student := range students {
		if err := s.CreateStudent(ctx, student); err != nil {
			s.logger.Warn("roster import stopped", "created", result.Created, "error", err)
			return result, fmt.Errorf("import %s after %d created: %w", student.FullName(), result.Created, err)
		}
		result.Created++
	}
	s.logger.Info("roster imported", "created", result.Created)
	return result, nil
}

// ExportJSON exports the roster as JSON
func (s *StudentService) ExportJSON(ctx context.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.export(ctx, s.jsonExp, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportYAML exports the roster as YAML
func (s *StudentService) ExportYAML(ctx context.Context, w io.Writer) error {
	return s.export(ctx, s.yamlExp, w)
}

// ExportCBOR exports the roster as deterministic CBOR
func (s *StudentService) ExportCBOR(ctx context.Context, w io.Writer) error {
	return s.export(ctx, s.cborExp, w)
}

func (s *StudentService) export(ctx context.Context, exp codec.Exporter, w io.Writer) error {
	students, err := s.repo.ListStudents(ctx)
	if err != nil {
		return err
	}
	if err := exp.Export(students, w); err != nil {
		return fmt.Errorf("export %s: %w", exp.Format(), err)
	}
	return nil
}
