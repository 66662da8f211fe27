package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iksnae/captain-session/internal"
	"github.com/iksnae/captain-session/internal/export"
	"github.com/spf13/cobra"
)

var (
	format    string
	outputDir string
	exportAll bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export sessions to file",
	Long: `Export the active session, or every session with --all, to jsonl, md,
yaml or json. Each session's transcript and orders are loaded from the
backend first. Use --out - to write to stdout.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		transcript := internal.NewTranscript()
		a, err := newApp(transcript)
		if err != nil {
			return err
		}
		defer a.close()

		var conversations []*internal.Conversation
		err = internal.ShowProgress(cmd.Context(), "Loading history", func(ctx context.Context) error {
			var collectErr error
			conversations, collectErr = collectConversations(ctx, a, transcript)
			return collectErr
		})
		if err != nil {
			return err
		}

		if outputDir == "-" {
			for _, conv := range conversations {
				if err := exporter.Export(conv, cmd.OutOrStdout()); err != nil {
					return &internal.ExportError{Format: format, Path: "stdout", Err: err}
				}
			}
			return nil
		}

		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		written := 0
		for _, conv := range conversations {
			path := filepath.Join(outputDir, fmt.Sprintf("session_%s.%s", conv.Session.ID, exporter.Extension()))
			if err := writeExport(exporter, conv, path); err != nil {
				internal.PrintError(err.Error())
				continue
			}
			written++
		}

		internal.PrintSuccess(fmt.Sprintf("Export complete: %d session(s) exported to %s", written, outputDir))
		if written < len(conversations) {
			return fmt.Errorf("%d session(s) failed to export", len(conversations)-written)
		}
		return nil
	},
}

// collectConversations loads the sessions to export. With --all every
// session is visited and the active one is restored on the way out, also
// when ctx is cancelled part way.
func collectConversations(ctx context.Context, a *app, transcript *internal.Transcript) ([]*internal.Conversation, error) {
	if !exportAll {
		a.ctrl.ReloadHistory(ctx)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return []*internal.Conversation{a.ctrl.Conversation(transcript.Messages())}, nil
	}

	activeID := a.sessions.ActiveID()
	defer func() {
		if a.sessions.ActiveID() == activeID {
			return
		}
		if _, err := a.ctrl.SwitchTo(activeID); err != nil {
			internal.LogWarn("Failed to restore active session %s: %v", activeID, err)
		}
	}()

	var out []*internal.Conversation
	for _, s := range a.sessions.Sessions() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		req, err := a.ctrl.SwitchTo(s.ID)
		if err != nil {
			return nil, err
		}
		res := a.ctrl.FetchHistory(ctx, req)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		a.ctrl.ApplyHistory(res)
		out = append(out, a.ctrl.Conversation(transcript.Messages()))
	}
	return out, nil
}

func writeExport(exporter export.Exporter, conv *internal.Conversation, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return &internal.ExportError{Format: format, Path: path, Err: err}
	}
	if err := exporter.Export(conv, file); err != nil {
		_ = file.Close()
		return &internal.ExportError{Format: format, Path: path, Err: err}
	}
	if err := file.Close(); err != nil {
		return &internal.ExportError{Format: format, Path: path, Err: err}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "jsonl", "Export format (jsonl, md, yaml, json)")
	exportCmd.Flags().StringVarP(&outputDir, "out", "o", "./exports", "Output directory, or - for stdout")
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "Export every session instead of the active one")
}
