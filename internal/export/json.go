package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/tourmate/internal"
)

// JSONExporter writes the whole session as one indented JSON document.
// Vietnamese text and place names are written unescaped.
type JSONExporter struct{}

// Export encodes the session, including per-message travel metadata
func (e *JSONExporter) Export(session *internal.Session, w io.Writer) error {
	if session == nil {
		return &internal.ExportError{Format: "json", Err: errNoSession}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	return enc.Encode(session)
}

func (e *JSONExporter) Extension() string {
	return "json"
}

func (e *JSONExporter) ContentType() string {
	return "application/json; charset=utf-8"
}
