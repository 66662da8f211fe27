package internal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	userMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 1)

	assistantMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true).
				Padding(0, 1)

	errorMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("196")).
				Bold(true).
				Padding(0, 1)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2)

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Padding(0, 1)

	orderIDStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// PendingText is shown while a reply is outstanding
const PendingText = "Captain is typing..."

// FormatMessage renders one transcript entry. A width of zero disables wrapping.
func FormatMessage(msg Message, width int) string {
	var header string
	switch {
	case msg.Role == RoleUser:
		header = userMessageStyle.Render("👤 You")
	case strings.HasPrefix(msg.Content, errorPrefix):
		header = errorMessageStyle.Render("⚠ Captain")
	default:
		header = assistantMessageStyle.Render("🤖 Captain")
	}

	content := strings.TrimSpace(msg.Content)
	style := messageContentStyle
	if width > 4 {
		style = style.Width(width)
	}
	if content == "" {
		content = mutedStyle.Render("(empty message)")
	}
	return header + "\n" + style.Render(content)
}

// FormatPending renders the transient pending marker
func FormatPending() string {
	return pendingStyle.Render("… " + PendingText)
}

// FormatOrder renders one order on a single line
func FormatOrder(o Order) string {
	route := o.Route
	if route == "" {
		route = "—"
	}
	return fmt.Sprintf("%s  %s  %s  %s",
		orderIDStyle.Render(o.ID), o.Mode, route, mutedStyle.Render(o.Status))
}

// FormatSession renders one session list entry, marking the active one
func FormatSession(s Session, active bool) string {
	marker := "  "
	if active {
		marker = orderIDStyle.Render("▸ ")
	}
	return marker + s.Label + " " + mutedStyle.Render(s.ID)
}
