package codec

import (
	"fmt"
	"io"
	"time"

	"coursebook/internal/domain"
)

// Exporter writes a student roster in a specific format
type Exporter interface {
	Export(students []domain.Student, w io.Writer) error
	Format() string
}

// rosterStudent is the export shape of a student. The course keeps its
// storage tag so an export can be read back against the same registry.
type rosterStudent struct {
	ID        int64         `json:"id" yaml:"id"`
	FirstName string        `json:"first_name" yaml:"first_name"`
	LastName  string        `json:"last_name" yaml:"last_name"`
	Course    *rosterCourse `json:"course" yaml:"course"`
	CreatedAt time.Time     `json:"created_at" yaml:"created_at"`
}

type rosterCourse struct {
	Type  string         `json:"type" yaml:"type"`
	Value domain.Subject `json:"value" yaml:"value"`
}

// buildRoster converts students to their export shape
func buildRoster(registry *Registry, students []domain.Student) ([]rosterStudent, error) {
	roster := make([]rosterStudent, 0, len(students))
	for _, s := range students {
		rs := rosterStudent{
			ID:        s.ID,
			FirstName: s.FirstName,
			LastName:  s.LastName,
			CreatedAt: s.CreatedAt,
		}
		if s.Course != nil {
			tag, err := registry.TagOf(s.Course)
			if err != nil {
				return nil, fmt.Errorf("student %d: %w", s.ID, err)
			}
			rs.Course = &rosterCourse{Type: tag, Value: s.Course}
		}
		roster = append(roster, rs)
	}
	return roster, nil
}
