package cmd

import (
	"context"
	"fmt"

	"github.com/iksnae/captain-session/internal"
	"github.com/iksnae/captain-session/internal/api"
	"github.com/spf13/cobra"
)

var bill api.BillRequest

var billCmd = &cobra.Command{
	Use:   "bill",
	Short: "Generate a bill of lading",
	Long: `Generate a bill of lading PDF on the backend. Every field is required;
missing fields are reported before anything is sent.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(internal.NewTranscript())
		if err != nil {
			return err
		}
		defer a.close()

		var result *api.BillResult
		err = internal.ShowProgress(cmd.Context(), "Generating bill "+bill.BillNumber, func(ctx context.Context) error {
			var genErr error
			result, genErr = a.forms.GenerateBill(ctx, bill)
			return genErr
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintln(out, headerStyle.Render("🧾 Bill generated"))
		_, _ = fmt.Fprintf(out, "Customer: %s\n", result.Customer)
		_, _ = fmt.Fprintf(out, "Driver:   %s\n", result.Driver)
		_, _ = fmt.Fprintf(out, "Gross:    %s\n", result.Gross)
		_, _ = fmt.Fprintf(out, "Net:      %s\n", result.Net)
		_, _ = fmt.Fprintf(out, "File:     %s%s\n", a.client.BaseURL(), result.FileURL)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(billCmd)
	f := billCmd.Flags()
	f.StringVar(&bill.BillNumber, "bill-number", "", "Bill number")
	f.StringVar(&bill.BillDate, "bill-date", "", "Bill date")
	f.StringVar(&bill.CustomerName, "customer-name", "", "Customer name")
	f.StringVar(&bill.CustomerAddress, "customer-address", "", "Customer address")
	f.StringVar(&bill.DriverName, "driver-name", "", "Driver name")
	f.StringVar(&bill.DriverPhone, "driver-phone", "", "Driver phone")
	f.StringVar(&bill.VehicleNumber, "vehicle-number", "", "Vehicle number")
	f.StringVar(&bill.Origin, "origin", "", "Origin")
	f.StringVar(&bill.Destination, "destination", "", "Destination")
	f.StringVar(&bill.Material, "material", "", "Material")
	f.StringVar(&bill.GrossWeight, "gross-weight", "", "Gross weight")
	f.StringVar(&bill.TareWeight, "tare-weight", "", "Tare weight")
	f.StringVar(&bill.Rate, "rate", "", "Rate")
}
