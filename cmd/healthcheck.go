package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/captain-session/internal"
	"github.com/iksnae/captain-session/internal/api"
	"github.com/spf13/cobra"
)

var (
	healthcheckVerbose bool
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check configuration, local state and backend reachability",
	Long: `Check the health of captain by verifying:
  • Configuration loads
  • The state database opens and holds the session list
  • The Captain backend answers a history request

This command is useful for debugging connection problems.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintln(out, sectionStyle.Render("🔍 Captain Health Check"))
		_, _ = fmt.Fprintln(out)

		var cfg *internal.Config
		var sessionCount int
		var sessionKey string
		var storedKeys []string
		steps := []internal.ProgressStep{
			{
				Message: "Loading configuration",
				Fn: func(ctx context.Context) error {
					var err error
					cfg, err = loadConfig()
					return err
				},
			},
			{
				Message: "Opening state database",
				Fn: func(ctx context.Context) error {
					db, err := internal.OpenDatabase(cfg.StatePath)
					if err != nil {
						return err
					}
					defer db.Close()
					kv := internal.NewSQLiteKV(db)
					sessions := internal.NewSessionManager(internal.NewStore(kv))
					sessionCount = len(sessions.Sessions())
					sessionKey = sessions.SessionKey()
					storedKeys, err = kv.Keys("captain.%")
					return err
				},
			},
			{
				Message: "Contacting Captain backend",
				Fn: func(ctx context.Context) error {
					client, err := api.New(api.Config{BaseURL: cfg.BaseURL, Timeout: cfg.HTTPTimeout})
					if err != nil {
						return err
					}
					_, err = client.History(ctx, sessionKey)
					return err
				},
			},
		}

		if err := internal.ShowProgressWithSteps(cmd.Context(), steps); err != nil {
			_, _ = fmt.Fprintln(out, errorStyle.Render("❌ Health check failed"))
			return err
		}

		_, _ = fmt.Fprintln(out, successStyle.Render("✅ Health check passed!"))
		if healthcheckVerbose {
			_, _ = fmt.Fprintf(out, "   Backend: %s\n", cfg.BaseURL)
			_, _ = fmt.Fprintf(out, "   State:   %s\n", cfg.StatePath)
			_, _ = fmt.Fprintf(out, "   Log:     %s\n", cfg.LogFile)
			_, _ = fmt.Fprintf(out, "   Sessions: %d\n", sessionCount)
			_, _ = fmt.Fprintf(out, "   Keys:    %s\n", strings.Join(storedKeys, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVarP(&healthcheckVerbose, "details", "d", false, "Show detailed diagnostic information")
}
