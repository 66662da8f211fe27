package cmd

import (
	"fmt"

	"github.com/iksnae/captain-session/internal"
	"github.com/spf13/cobra"
)

var (
	loginName  string
	loginEmail string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in as a named user",
	Long: `Sign in as a named user. The same email always maps to the same user id,
so sessions started elsewhere with that email share history. There is no
password; this only selects who Captain talks to.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(newPrinterView(cmd.OutOrStdout()))
		if err != nil {
			return err
		}
		defer a.close()

		return a.ctrl.Dispatch(cmd.Context(), internal.Event{
			Intent: internal.IntentLogin,
			Login:  internal.LoginForm{Name: loginName, Email: loginEmail},
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and continue as Guest",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(newPrinterView(cmd.OutOrStdout()))
		if err != nil {
			return err
		}
		defer a.close()

		return a.ctrl.Dispatch(cmd.Context(), internal.Event{Intent: internal.IntentLogout})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current user and session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(internal.NewTranscript())
		if err != nil {
			return err
		}
		defer a.close()

		u := a.sessions.User()
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "User:    %s (%s)\n", u.Name, u.ID)
		if u.Email != "" {
			_, _ = fmt.Fprintf(out, "Email:   %s\n", u.Email)
		}
		_, _ = fmt.Fprintf(out, "Session: %s\n", a.sessions.ActiveID())
		_, _ = fmt.Fprintf(out, "Key:     %s\n", a.sessions.SessionKey())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	loginCmd.Flags().StringVar(&loginName, "name", "", "Display name (required)")
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Email address")
}
