package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/captain-session/internal"
	"github.com/spf13/cobra"
)

var (
	limit int
)

var (
	sessionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1).
				MarginBottom(1)

	sessionMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				MarginBottom(1)
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the server history of the active session",
	Long: `Load the active session's transcript from the backend and print it.

A session with no history shows Captain's welcome message.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		transcript, a, err := loadActiveConversation(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		active := a.sessions.Active()
		messages := transcript.Messages()
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintln(out, sessionHeaderStyle.Render("💬 "+active.Label))
		_, _ = fmt.Fprintln(out, sessionMetaStyle.Render(fmt.Sprintf("%s · %s · %d message(s)",
			active.ID, a.sessions.User().Name, len(messages))))

		if limit > 0 && len(messages) > limit {
			messages = messages[len(messages)-limit:]
		}
		for _, msg := range messages {
			_, _ = fmt.Fprintf(out, "%s\n\n", internal.FormatMessage(msg, 0))
		}
		return nil
	},
}

// loadActiveConversation fetches history for the active session into a
// fresh transcript
func loadActiveConversation(cmd *cobra.Command) (*internal.Transcript, *app, error) {
	transcript := internal.NewTranscript()
	a, err := newApp(transcript)
	if err != nil {
		return nil, nil, err
	}
	a.ctrl.ReloadHistory(cmd.Context())
	return transcript, a, nil
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show only the last N messages (0 for all)")
}
