package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/captain-session/internal"
	"github.com/spf13/cobra"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List, create and switch sessions",
	Long:  `List the local sessions, newest first. The active session is marked.`,
	Args:  cobra.NoArgs,
	RunE:  runSessionsList,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions",
	Args:  cobra.NoArgs,
	RunE:  runSessionsList,
}

var sessionsNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Start a new session and make it active",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(internal.NewTranscript())
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.ctrl.Dispatch(cmd.Context(), internal.Event{Intent: internal.IntentNewSession}); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Started session "+a.sessions.ActiveID())
		return nil
	},
}

var sessionsSwitchCmd = &cobra.Command{
	Use:   "switch <session-id>",
	Short: "Make another session active",
	Long: `Make another session active. Use 'captain sessions' to see ids.
The session's history is loaded to rebuild its label and orders.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(internal.NewTranscript())
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.ctrl.Dispatch(cmd.Context(), internal.Event{
			Intent:    internal.IntentSwitchSession,
			SessionID: args[0],
		}); err != nil {
			return err
		}
		active := a.sessions.Active()
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Switched to %s (%s)\n", active.ID, active.Label)
		return nil
	},
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	a, err := newApp(internal.NewTranscript())
	if err != nil {
		return err
	}
	defer a.close()

	sessions := a.sessions.Sessions()
	activeID := a.sessions.ActiveID()
	out := cmd.OutOrStdout()

	_, _ = fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("📋 %d session(s)", len(sessions))))
	_, _ = fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, " \t"+titleStyle.Render("ID")+"\t"+titleStyle.Render("Label")+"\t"+titleStyle.Render("Created")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 72))
	for _, s := range sessions {
		marker := " "
		if s.ID == activeID {
			marker = "▸"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", marker, idStyle.Render(s.ID), s.Label, dateStyle.Render(formatCreated(s.CreatedAt)))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, idStyle.Render("💡 Tip: switch with `captain sessions switch <id>`"))
	return nil
}

func formatCreated(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	diff := time.Since(t)
	switch {
	case diff < 24*time.Hour:
		return t.Format("Today 15:04")
	case diff < 7*24*time.Hour:
		return t.Format("Mon 15:04")
	case diff < 365*24*time.Hour:
		return t.Format("Jan 02 15:04")
	default:
		return t.Format("2006-01-02")
	}
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsNewCmd)
	sessionsCmd.AddCommand(sessionsSwitchCmd)
}
