package cli

import (
	"github.com/andy/invoicer/internal/app"
	"github.com/spf13/cobra"
)

var appInstance *app.App

var rootCmd = &cobra.Command{
	Use:   "invoicer",
	Short: "A terminal invoice builder with UPI payment links",
	Long: `Invoicer builds invoices from line items, keeps a local history of saved
invoices and produces a UPI payment link for each invoice total.

By default, running invoicer without arguments launches the interactive TUI.
Use subcommands for CLI operations.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: launch TUI
		return launchTUI(cmd, args)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetApp sets the app instance for commands to use
func SetApp(a *app.App) {
	appInstance = a
}

func init() {
	rootCmd.AddCommand(invoicesCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(tuiCmd)
}
