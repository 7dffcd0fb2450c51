package codec

import (
	"fmt"
	"io"

	"coursebook/internal/domain"

	"github.com/fxamacker/cbor/v2"
)

// cborEncMode uses Core Deterministic Encoding (RFC 8949 §4.2), so the same
// roster always produces identical bytes. Times are written as RFC 3339
// text to match the other export formats.
var cborEncMode cbor.EncMode

func init() {
	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeRFC3339Nano

	var err error
	cborEncMode, err = opts.EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}
}

// CBORExporter handles CBOR roster export
type CBORExporter struct {
	registry *Registry
}

// NewCBORExporter creates a new CBOR exporter
func NewCBORExporter(registry *Registry) *CBORExporter {
	return &CBORExporter{registry: registry}
}

// Format returns the exporter format identifier
func (e *CBORExporter) Format() string {
	return "cbor"
}

// Export writes the roster as a single CBOR map
func (e *CBORExporter) Export(students []domain.Student, w io.Writer) error {
	roster, err := buildRoster(e.registry, students)
	if err != nil {
		return fmt.Errorf("failed to build roster: %w", err)
	}

	if err := cborEncMode.NewEncoder(w).Encode(map[string]any{"students": roster}); err != nil {
		return fmt.Errorf("failed to encode CBOR: %w", err)
	}

	return nil
}
