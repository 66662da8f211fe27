package export

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/iksnae/captain-session/internal"
)

func TestJSONExporter_Export(t *testing.T) {
	tests := []struct {
		name string
		conv *internal.Conversation
	}{
		{
			name: "conversation with order",
			conv: internal.CreateTestConversation("s_1"),
		},
		{
			name: "empty conversation",
			conv: internal.CreateTestConversationWithMessages("s_2", []internal.Message{}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			exporter := &JSONExporter{}

			if err := exporter.Export(tt.conv, &buf); err != nil {
				t.Fatalf("JSONExporter.Export() error = %v", err)
			}

			var got internal.Conversation
			if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
				t.Fatalf("Output is not valid JSON: %v\nOutput: %s", err, buf.String())
			}
			if got.Session.ID != tt.conv.Session.ID || !got.Session.CreatedAt.Equal(tt.conv.Session.CreatedAt) {
				t.Errorf("session = %+v, want %+v", got.Session, tt.conv.Session)
			}
			if len(got.Messages) != len(tt.conv.Messages) {
				t.Errorf("messages = %d, want %d", len(got.Messages), len(tt.conv.Messages))
			}
			if len(tt.conv.Orders) > 0 && !reflect.DeepEqual(got.Orders, tt.conv.Orders) {
				t.Errorf("orders = %+v, want %+v", got.Orders, tt.conv.Orders)
			}

			if !strings.Contains(buf.String(), "\n  ") {
				t.Errorf("Output should be pretty-printed with indentation")
			}
		})
	}
}

func TestJSONExporter_FieldNames(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONExporter{}).Export(internal.CreateTestConversation("s_1"), &buf); err != nil {
		t.Fatalf("JSONExporter.Export() error = %v", err)
	}
	for _, key := range []string{`"createdAt"`, `"role"`, `"orders"`, `"status": "In Transit"`} {
		if !strings.Contains(buf.String(), key) {
			t.Errorf("Output should contain %s", key)
		}
	}
}

func TestJSONExporter_Extension(t *testing.T) {
	exporter := &JSONExporter{}
	if got := exporter.Extension(); got != "json" {
		t.Errorf("JSONExporter.Extension() = %v, want json", got)
	}
}
