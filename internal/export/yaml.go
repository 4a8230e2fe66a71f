package export

import (
	"io"

	"github.com/iksnae/tourmate/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter writes the session as a single YAML document
type YAMLExporter struct{}

func (e *YAMLExporter) Export(session *internal.Session, w io.Writer) error {
	if session == nil {
		return &internal.ExportError{Format: "yaml", Err: errNoSession}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(session); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

func (e *YAMLExporter) Extension() string {
	return "yaml"
}

func (e *YAMLExporter) ContentType() string {
	return "application/yaml; charset=utf-8"
}
