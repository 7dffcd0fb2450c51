// Package loader reads student rosters from YAML files in the same shape the
// YAML export writes, so an export can seed a fresh database.
package loader

import (
	"encoding/json"
	"fmt"
	"os"

	"coursebook/internal/domain"

	"gopkg.in/yaml.v3"
)

// CourseParser turns a course type tag and its JSON payload into a subject
type CourseParser interface {
	ParseCourse(tag string, payload []byte) (domain.Subject, error)
}

// RosterYAML represents the YAML file structure
type RosterYAML struct {
	Students []StudentYAML `yaml:"students"`
}

// StudentYAML represents a single student entry. Any id or created_at in
// the file is ignored; both are assigned when the student is stored.
type StudentYAML struct {
	FirstName string      `yaml:"first_name"`
	LastName  string      `yaml:"last_name"`
	Course    *CourseYAML `yaml:"course"`
}

// CourseYAML is a course tagged with its storage type
type CourseYAML struct {
	Type  string    `yaml:"type"`
	Value yaml.Node `yaml:"value"`
}

// LoadYAML loads a roster from a YAML file
func LoadYAML(path string, courses CourseParser) ([]*domain.Student, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return ParseYAML(data, courses)
}

// ParseYAML parses a roster from YAML bytes. Every entry is checked before
// any is returned.
func ParseYAML(data []byte, courses CourseParser) ([]*domain.Student, error) {
	var yamlData RosterYAML
	if err := yaml.Unmarshal(data, &yamlData); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	students := make([]*domain.Student, 0, len(yamlData.Students))
	for i, entry := range yamlData.Students {
		student, err := convertStudent(entry, courses)
		if err != nil {
			return nil, fmt.Errorf("student %d: %w", i+1, err)
		}
		students = append(students, student)
	}
	return students, nil
}

func convertStudent(y StudentYAML, courses CourseParser) (*domain.Student, error) {
	var course domain.Subject
	if y.Course != nil {
		payload, err := nodeToJSON(&y.Course.Value)
		if err != nil {
			return nil, fmt.Errorf("course value: %w", err)
		}
		course, err = courses.ParseCourse(y.Course.Type, payload)
		if err != nil {
			return nil, err
		}
	}

	student := domain.NewStudent(y.FirstName, y.LastName, course)
	if err := student.Validate(); err != nil {
		return nil, err
	}
	return student, nil
}

// nodeToJSON re-encodes a YAML value as JSON so it can go through the same
// strict payload decoding as API input
func nodeToJSON(node *yaml.Node) ([]byte, error) {
	if node.Kind == 0 {
		return []byte("null"), nil
	}
	var v any
	if err := node.Decode(&v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}
