package cmd

import (
	"strings"

	"github.com/iksnae/captain-session/internal"
	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send <message...>",
	Short: "Send one message to Captain and print the reply",
	Long: `Send one message in the active session and print the reply.

Orders in the reply are tracked for the session; see 'captain orders'.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(newPrinterView(cmd.OutOrStdout()))
		if err != nil {
			return err
		}
		defer a.close()

		return a.ctrl.Dispatch(cmd.Context(), internal.Event{
			Intent: internal.IntentSend,
			Text:   strings.Join(args, " "),
		})
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
}
