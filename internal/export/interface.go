package export

import (
	"errors"
	"io"
	"strings"

	"github.com/iksnae/captain-session/internal"
)

// ErrUnsupportedFormat is wrapped by NewExporter for unknown formats
var ErrUnsupportedFormat = errors.New("unsupported format (supported: jsonl, md, yaml, json)")

// Exporter writes one conversation in a file format
type Exporter interface {
	Export(conv *internal.Conversation, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch strings.ToLower(format) {
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	default:
		return nil, &internal.ExportError{Format: format, Err: ErrUnsupportedFormat}
	}
}
