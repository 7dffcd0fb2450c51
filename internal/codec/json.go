package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"coursebook/internal/domain"
)

// JSONExporter handles JSON roster export
type JSONExporter struct {
	registry *Registry
}

// NewJSONExporter creates a new JSON exporter
func NewJSONExporter(registry *Registry) *JSONExporter {
	return &JSONExporter{registry: registry}
}

// Format returns the exporter format identifier
func (e *JSONExporter) Format() string {
	return "json"
}

// Export writes the roster as indented JSON
func (e *JSONExporter) Export(students []domain.Student, w io.Writer) error {
	roster, err := buildRoster(e.registry, students)
	if err != nil {
		return fmt.Errorf("failed to build roster: %w", err)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(map[string]any{"students": roster}); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
