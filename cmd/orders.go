package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List orders Captain booked in the active session",
	Long: `List the orders found in Captain's replies in the active session,
newest first. Orders are rebuilt from the server history.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, a, err := loadActiveConversation(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		orders := a.ctrl.Orders()
		out := cmd.OutOrStdout()
		if len(orders) == 0 {
			_, _ = fmt.Fprintln(out, headerStyle.Render("📦 No orders in this session"))
			return nil
		}

		_, _ = fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("📦 %d order(s)", len(orders))))
		_, _ = fmt.Fprintln(out)
		w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		_, _ = fmt.Fprintln(w, titleStyle.Render("Order")+"\t"+titleStyle.Render("Mode")+"\t"+titleStyle.Render("Route")+"\t"+titleStyle.Render("Status")+"\t")
		for _, o := range orders {
			route := o.Route
			if route == "" {
				route = "—"
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", o.ID, o.Mode, route, dateStyle.Render(o.Status))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(ordersCmd)
}
