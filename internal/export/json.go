package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/captain-session/internal"
)

// JSONExporter writes the whole conversation as one indented document
type JSONExporter struct{}

// Export writes conv as JSON
func (e *JSONExporter) Export(conv *internal.Conversation, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(conv)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
