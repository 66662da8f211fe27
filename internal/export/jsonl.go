package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/captain-session/internal"
)

// JSONLExporter writes one message per line, each tagged with its session
// key so several exports can be concatenated.
type JSONLExporter struct{}

type jsonlLine struct {
	Key     string `json:"key"`
	Index   int    `json:"index"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Export writes conv as JSON lines
func (e *JSONLExporter) Export(conv *internal.Conversation, w io.Writer) error {
	enc := json.NewEncoder(w)
	key := internal.SessionKey(conv.User.ID, conv.Session.ID)

	for i, msg := range conv.Messages {
		line := jsonlLine{Key: key, Index: i, Role: msg.Role, Content: msg.Content}
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("failed to encode message %d: %w", i, err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
