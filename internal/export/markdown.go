package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iksnae/captain-session/internal"
)

// MarkdownExporter writes a readable transcript with an order table
type MarkdownExporter struct{}

// Export writes conv as Markdown
func (e *MarkdownExporter) Export(conv *internal.Conversation, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# %s\n\n", conv.Session.Label)

	_, _ = fmt.Fprintf(w, "**Session:** %s  \n", conv.Session.ID)
	_, _ = fmt.Fprintf(w, "**User:** %s  \n", conv.User.Name)
	if !conv.Session.CreatedAt.IsZero() {
		_, _ = fmt.Fprintf(w, "**Created:** %s  \n", conv.Session.CreatedAt.Format(time.RFC3339))
	}
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(conv.Messages))

	if len(conv.Orders) > 0 {
		_, _ = fmt.Fprintf(w, "## Orders\n\n")
		_, _ = fmt.Fprintf(w, "| Order | Mode | Route | Status |\n|---|---|---|---|\n")
		for _, o := range conv.Orders {
			_, _ = fmt.Fprintf(w, "| %s | %s | %s | %s |\n", o.ID, escapeCell(o.Mode), escapeCell(o.Route), o.Status)
		}
		_, _ = fmt.Fprintf(w, "\n")
	}

	_, _ = fmt.Fprintf(w, "---\n\n")
	_, _ = fmt.Fprintf(w, "## Messages\n\n")

	for i, msg := range conv.Messages {
		_, _ = fmt.Fprintf(w, "**%s:**\n\n%s\n\n", speaker(msg.Role), escapeMarkdown(msg.Content))

		if i < len(conv.Messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

func speaker(role string) string {
	if role == internal.RoleUser {
		return "You"
	}
	return "Captain"
}

// escapeMarkdown escapes markdown special characters outside code blocks
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

func escapeCell(text string) string {
	if text == "" {
		return "-"
	}
	return strings.ReplaceAll(text, "|", "\\|")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
