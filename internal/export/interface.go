package export

import (
	"errors"
	"io"

	"github.com/iksnae/tourmate/internal"
)

// errNoSession is wrapped in an ExportError when Export receives a nil session
var errNoSession = errors.New("no session to export")

// Exporter writes a chat session snapshot in one streamed format. The same
// exporter backs "tourmate export", the REPL's /export command and
// GET /sessions/:id/export.
type Exporter interface {
	// Export writes the session, its messages and their metadata to w
	Export(session *internal.Session, w io.Writer) error
	// Extension is the file extension used when exporting to disk
	Extension() string
	// ContentType is the HTTP Content-Type the server sends with the body
	ContentType() string
}
// Formats lists the streamed formats NewExporter accepts
var Formats = []string{"json", "jsonl", "yaml", "md"}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	default:
		return nil, &internal.ExportError{
			Format: format,
			Err:    errors.New("unsupported format (supported: json, jsonl, yaml, md, sqlite)"),
		}
	}
}
