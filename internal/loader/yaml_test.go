package loader

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"coursebook/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubParser accepts course.v1 payloads only
type stubParser struct {
	payloads []string
}

func (p *stubParser) ParseCourse(tag string, payload []byte) (domain.Subject, error) {
	p.payloads = append(p.payloads, string(payload))
	if tag != domain.TagCourse {
		return nil, errors.New("unknown course type " + tag)
	}
	var c domain.Course
	if err := json.Unmarshal(payload, &c); err != nil {
		return nil, err
	}
	return c, nil
}

const rosterYAML = `
students:
  - id: 7
    first_name: Ada
    last_name: Lovelace
    course:
      type: course.v1
      value:
        name: Algebra I
        credits: 3
    created_at: 2024-05-01T09:30:00Z
  - first_name: Grace
    last_name: Hopper
    course: null
`

func TestParseYAML(t *testing.T) {
	parser := &stubParser{}
	students, err := ParseYAML([]byte(rosterYAML), parser)
	require.NoError(t, err)
	require.Len(t, students, 2)

	assert.Equal(t, "Ada", students[0].FirstName)
	assert.Zero(t, students[0].ID)
	assert.Equal(t, domain.NewCourse("Algebra I", 3), students[0].Course)

	assert.Equal(t, "Hopper", students[1].LastName)
	assert.Nil(t, students[1].Course)

	require.Len(t, parser.payloads, 1)
	assert.JSONEq(t, `{"name":"Algebra I","credits":3}`, parser.payloads[0])
}

func TestParseYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed", "students: [\n"},
		{"missing last name", "students:\n  - first_name: Ada\n"},
		{"rejected course", "students:\n  - first_name: A\n    last_name: B\n    course:\n      type: lecture.v1\n      value: {}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.data), &stubParser{})
			assert.Error(t, err)
		})
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(rosterYAML), 0644))

	students, err := LoadYAML(path, &stubParser{})
	require.NoError(t, err)
	assert.Len(t, students, 2)

	_, err = LoadYAML(filepath.Join(t.TempDir(), "missing.yaml"), &stubParser{})
	assert.Error(t, err)
}
