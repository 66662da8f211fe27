package export

import (
	"io"

	"github.com/iksnae/captain-session/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter writes the whole conversation as YAML
type YAMLExporter struct{}

// Export writes conv as YAML
func (e *YAMLExporter) Export(conv *internal.Conversation, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()

	return enc.Encode(conv)
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
