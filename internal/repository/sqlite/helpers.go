package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"coursebook/internal/codec"
	"coursebook/internal/domain"
)

// ============================================================================
// Time Helpers
// ============================================================================

// Timestamps are stored as UTC RFC 3339 text so they sort and compare as
// strings.
const timeLayout = time.RFC3339Nano

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

// ============================================================================
// Student Row Scanner
// ============================================================================
//
// To add a new column to the student table:
// 1. Add field to studentRow
// 2. APPEND to scanArgs() and studentColumns in the same position
// 3. Map it in toDomain() and studentInsertArgs()
// 4. Add it to the CREATE TABLE in migrate()

// studentRow holds all columns from a student query for scanning
type studentRow struct {
	ID         int64
	FirstName  string
	LastName   string
	CourseJSON sql.NullString
	CreatedAt  string
}

// scanArgs returns pointers to all fields for sql.Scan()
// MUST match studentColumns order exactly:
// student_id, first_name, last_name, course, created_at
func (r *studentRow) scanArgs() []interface{} {
	return []interface{}{
		&r.ID,         // 1
		&r.FirstName,  // 2
		&r.LastName,   // 3
		&r.CourseJSON, // 4
		&r.CreatedAt,  // 5
	}
}

// toDomain converts the scanned row to a domain.Student. A course column
// that cannot be decoded is logged by the codec and read as no course.
func (r *studentRow) toDomain(courses *codec.Attribute[domain.Subject]) (*domain.Student, error) {
	createdAt, err := parseTime(r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at for student %d: %w", r.ID, err)
	}

	return &domain.Student{
		ID:        r.ID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Course:    courses.FromStorage(r.CourseJSON),
		CreatedAt: createdAt,
	}, nil
}

// studentColumns is the SELECT column list for student queries
const studentColumns = `student_id, first_name, last_name, course, created_at`

// ============================================================================
// Student Write Helpers
// ============================================================================

// studentInsertArgs prepares arguments for student INSERT
// Returns: first_name, last_name, course, created_at
func studentInsertArgs(student *domain.Student, courses *codec.Attribute[domain.Subject]) ([]interface{}, error) {
	courseJSON, err := courses.ToStorage(student.Course)
	if err != nil {
		return nil, fmt.Errorf("encode course: %w", err)
	}

	return []interface{}{
		student.FirstName,
		student.LastName,
		courseJSON,
		formatTime(student.CreatedAt),
	}, nil
}
