package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the saved invoice history",
	Long: `Delete every saved invoice. The UPI ID setting is kept.

Examples:
  invoicer reset         # Asks for confirmation
  invoicer reset --yes   # No prompt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes && !confirmPrompt("This will delete ALL saved invoices. Continue?") {
			fmt.Println("Cancelled.")
			return nil
		}

		if err := appInstance.InvoiceRepo.Clear(context.Background()); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}

		fmt.Println("All saved invoices have been deleted.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
