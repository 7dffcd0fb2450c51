package codec

import (
	"fmt"
	"io"

	"coursebook/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLExporter handles YAML roster export
type YAMLExporter struct {
	registry *Registry
}

// NewYAMLExporter creates a new YAML exporter
func NewYAMLExporter(registry *Registry) *YAMLExporter {
	return &YAMLExporter{registry: registry}
}

// Format returns the exporter format identifier
func (e *YAMLExporter) Format() string {
	return "yaml"
}

type yamlRoster struct {
	Students []rosterStudent `yaml:"students"`
}

// Export writes the roster as YAML
func (e *YAMLExporter) Export(students []domain.Student, w io.Writer) error {
	roster, err := buildRoster(e.registry, students)
	if err != nil {
		return fmt.Errorf("failed to build roster: %w", err)
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(&yamlRoster{Students: roster}); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
