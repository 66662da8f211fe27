package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/iksnae/captain-session/internal"
	"github.com/iksnae/captain-session/internal/api"
	"github.com/spf13/cobra"
)

var (
	category string
)

var complianceCmd = &cobra.Command{
	Use:   "compliance",
	Short: "Ask compliance questions and verify documents",
}

var complianceAskCmd = &cobra.Command{
	Use:   "ask <question...>",
	Short: "Ask the compliance knowledge base",
	Long: fmt.Sprintf(`Ask the compliance knowledge base a question.

Categories: %s.`, strings.Join(internal.Categories, ", ")),
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(internal.NewTranscript())
		if err != nil {
			return err
		}
		defer a.close()

		var answer string
		err = internal.ShowProgress(cmd.Context(), "Asking Captain", func(ctx context.Context) error {
			var askErr error
			answer, askErr = a.forms.AskCompliance(ctx, internal.RAGForm{
				Query:    strings.Join(args, " "),
				Category: category,
			})
			return askErr
		})
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), internal.FormatMessage(internal.Message{Role: internal.RoleAssistant, Content: answer}, 0))
		return nil
	},
}

var complianceUploadCmd = &cobra.Command{
	Use:   "upload <file.pdf>",
	Short: "Upload a PDF for field extraction and verification",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(internal.NewTranscript())
		if err != nil {
			return err
		}
		defer a.close()

		var report *api.ComplianceReport
		err = internal.ShowProgress(cmd.Context(), "Checking "+args[0], func(ctx context.Context) error {
			var upErr error
			report, upErr = a.forms.UploadCompliance(ctx, internal.UploadForm{Path: args[0]})
			return upErr
		})
		if err != nil {
			return err
		}
		printReport(cmd, report)
		return nil
	},
}

func printReport(cmd *cobra.Command, r *api.ComplianceReport) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, headerStyle.Render("📄 "+r.FileName))
	_, _ = fmt.Fprintf(out, "Product:  %s\n", r.KeyFields.ProductName)
	_, _ = fmt.Fprintf(out, "HSN code: %s\n", r.KeyFields.HSNCode)
	_, _ = fmt.Fprintf(out, "Weight:   %s\n", r.KeyFields.Weight)
	_, _ = fmt.Fprintf(out, "Status:   %s\n", r.Verification.Status)
	if r.Verification.Remarks != "" {
		_, _ = fmt.Fprintf(out, "Remarks:  %s\n", r.Verification.Remarks)
	}
	if len(r.Verification.MissingFields) > 0 {
		_, _ = fmt.Fprintf(out, "Missing:  %s\n", strings.Join(r.Verification.MissingFields, ", "))
	}
	if r.Summary != "" {
		_, _ = fmt.Fprintf(out, "\n%s\n", r.Summary)
	}
}

func init() {
	rootCmd.AddCommand(complianceCmd)
	complianceCmd.AddCommand(complianceAskCmd)
	complianceCmd.AddCommand(complianceUploadCmd)
	complianceAskCmd.Flags().StringVarP(&category, "category", "c", internal.DefaultCategory, "Knowledge base to search")
}
