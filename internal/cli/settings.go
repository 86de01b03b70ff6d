package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "View and change settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appInstance.Config
		fmt.Printf("%-18s %s\n", "UPI ID:", appInstance.Session.UPIID(context.Background()))
		fmt.Printf("%-18s %s\n", "Payee name:", cfg.Payment.PayeeName)
		fmt.Printf("%-18s %s\n", "ID prefix:", cfg.Invoice.IDPrefix)
		fmt.Printf("%-18s %s\n", "First invoice ID:", cfg.Invoice.DefaultID)
		fmt.Printf("%-18s %s\n", "Output directory:", cfg.Invoice.OutputDir)
		fmt.Printf("%-18s %s (%s)\n", "Database:", cfg.Database.Path, cfg.Database.Driver)
		return nil
	},
}

var settingsUPICmd = &cobra.Command{
	Use:   "upi [upi_id]",
	Short: "Show or set the UPI ID used in payment links",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		if len(args) == 0 {
			fmt.Println(appInstance.Session.UPIID(ctx))
			return nil
		}

		if err := appInstance.Session.SetUPIID(ctx, args[0]); err != nil {
			return fmt.Errorf("failed to save UPI ID: %w", err)
		}

		fmt.Printf("✓ UPI ID set to %s\n", appInstance.Session.UPIID(ctx))
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsUPICmd)
}
