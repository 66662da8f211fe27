package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/iksnae/captain-session/internal"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	apiURL     string
	statePath  string
	version    string = "dev"
	commit     string = "unknown"
	date       string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "captain",
	Short: "Terminal client for the Captain AI logistics assistant",
	Long: `A terminal client for Captain AI, the logistics assistant.

Chat with Captain, keep several sessions side by side, and track the orders
Captain books for you. Side commands cover compliance questions, compliance
document checks and bill generation.

Features:
  • Interactive chat with optimistic rendering
  • Sessions persisted locally and labelled from your first message
  • Orders picked out of Captain's replies
  • Compliance Q&A and PDF verification
  • Bill of lading generation
  • Export a session as JSONL, Markdown, YAML or JSON

Quick Start:
  captain chat                          # Open the chat view
  captain send "Book a 20ft container"  # Send one message
  captain sessions                      # List sessions
  captain orders                        # Orders in the active session

Configuration is read from ~/.captain/config.yaml and CAPTAIN_* variables.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.captain/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "Captain backend URL (overrides base_url)")
	rootCmd.PersistentFlags().StringVar(&statePath, "state", "", "State database path (overrides state_path)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
	rootCmd.SilenceErrors = true
}
