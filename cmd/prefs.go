package cmd

import (
	"fmt"
	"strings"

	"github.com/iksnae/captain-session/internal"
	"github.com/spf13/cobra"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or set saved preferences",
}

var prefsPromptCmd = &cobra.Command{
	Use:   "prompt [text...]",
	Short: "Show or set the saved system prompt",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPref(cmd, args, (*internal.Store).SystemPrompt, (*internal.Store).SetSystemPrompt)
	},
}

var prefsContextCmd = &cobra.Command{
	Use:   "context [text...]",
	Short: "Show or set the saved session context",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPref(cmd, args, (*internal.Store).SessionContext, (*internal.Store).SetSessionContext)
	},
}

func runPref(cmd *cobra.Command, args []string, get func(*internal.Store) string, set func(*internal.Store, string)) error {
	a, err := newApp(internal.NewTranscript())
	if err != nil {
		return err
	}
	defer a.close()

	if len(args) > 0 {
		set(a.store, strings.Join(args, " "))
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Saved")
		return nil
	}
	value := get(a.store)
	if value == "" {
		internal.PrintInfo("Nothing saved yet")
		return nil
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func init() {
	rootCmd.AddCommand(prefsCmd)
	prefsCmd.AddCommand(prefsPromptCmd)
	prefsCmd.AddCommand(prefsContextCmd)
}
