package cmd

import (
	"os"
	"path/filepath"

	"github.com/iksnae/captain-session/internal"
	"github.com/iksnae/captain-session/internal/tui"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the interactive chat view",
	Long: `Open the interactive chat view for the active session.

Type a message and press Enter to send it. Lines starting with / are
commands; /help lists them. Logs go to the configured log file while the
view is open.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		transcript := internal.NewTranscript()
		a, err := newApp(transcript)
		if err != nil {
			return err
		}
		defer a.close()

		if logFile := openLogFile(a.cfg.LogFile); logFile != nil {
			internal.SetLogOutput(logFile)
			defer func() {
				internal.SetLogOutput(os.Stderr)
				_ = logFile.Close()
			}()
		}

		return tui.Run(cmd.Context(), a.ctrl, transcript)
	},
}

// openLogFile opens path for appending. Logging is dropped when it cannot.
func openLogFile(path string) *os.File {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		internal.LogWarn("Failed to create log directory: %v", err)
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		internal.LogWarn("Failed to open log file: %v", err)
		return nil
	}
	return f
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
