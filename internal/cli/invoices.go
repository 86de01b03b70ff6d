package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/export"
	"github.com/andy/invoicer/internal/repository"
	"github.com/spf13/cobra"
)

var invoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Manage invoices",
	Long:  `Create, list, show and export saved invoices.`,
}

var invoicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved invoices, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		invoices := appInstance.Session.History(ctx)
		if len(invoices) == 0 {
			fmt.Println("No history found")
			return nil
		}

		// Print table header
		fmt.Printf("%-15s %-24s %-12s %12s\n", "ID", "Client", "Date", "Total")
		fmt.Println(strings.Repeat("-", 66))

		for _, inv := range invoices {
			fmt.Printf("%-15s %-24s %-12s %12s\n",
				truncate(inv.ID, 15),
				truncate(clientLabel(inv.ClientName), 24),
				export.FormatDate(inv.Date),
				export.FormatMoney(inv.Total()),
			)
		}

		fmt.Printf("\nTotal: %d invoice(s)\n", len(invoices))
		return nil
	},
}

var invoicesShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a saved invoice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		inv, err := appInstance.InvoiceRepo.FindByID(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get invoice: %w", err)
		}

		fmt.Print(export.Text(inv, exportOptions(ctx, inv)))
		return nil
	},
}

var invoicesNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Build and save an invoice",
	Long: `Build an invoice from flags and save it to the history.

Items are given as name:price[:qty] and may be repeated. When --id is omitted
the next sequential invoice ID is used.

Examples:
  invoicer invoices new --client "Acme" --item "Logo design:1500" --item "Revisions:250:2"
  invoicer invoices new --id BL-25-12-03 --overwrite --item "Retainer:5000"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		session := appInstance.Session

		session.StartNew(ctx)

		if cmd.Flags().Changed("id") {
			id, _ := cmd.Flags().GetString("id")
			session.SetID(id)
		}

		dateStr, _ := cmd.Flags().GetString("date")
		date, err := parseDate(dateStr)
		if err != nil {
			return fmt.Errorf("invalid date: %w", err)
		}
		if dateStr != "" {
			session.SetDate(date)
		}

		client, _ := cmd.Flags().GetString("client")
		address, _ := cmd.Flags().GetString("address")
		session.SetClientName(client)
		session.SetClientAddress(address)

		items, _ := cmd.Flags().GetStringArray("item")
		for i, raw := range items {
			if i > 0 {
				session.AddItem()
			}
			spec := parseItem(raw)
			if err := setItem(session.SetItemField, i, spec); err != nil {
				return err
			}
		}

		qr, _ := cmd.Flags().GetString("qr")
		if qr != "" {
			session.UseCustomQR(qr)
		}

		overwrite, _ := cmd.Flags().GetBool("overwrite")
		result, err := session.Save(ctx, overwrite)
		if err != nil {
			return describeSaveError(err)
		}

		if result == repository.SaveDeclined {
			if !confirmPrompt("Invoice ID exists. Overwrite?") {
				fmt.Println("Cancelled.")
				return nil
			}
			if result, err = session.Save(ctx, true); err != nil {
				return describeSaveError(err)
			}
		}

		current := session.Current()
		fmt.Println("✓ Invoice Saved!")
		fmt.Printf("  ID:     %s (%s)\n", current.ID, result)
		fmt.Printf("  Client: %s\n", clientLabel(current.ClientName))
		fmt.Printf("  Total:  %s\n", export.FormatMoney(current.Total()))
		if path, ok := session.CustomQR(); ok {
			fmt.Printf("  QR:     %s\n", path)
		} else {
			fmt.Printf("  Pay:    %s\n", session.PaymentPayload(ctx))
		}

		return nil
	},
}

var invoicesNextIDCmd = &cobra.Command{
	Use:   "next-id",
	Short: "Print the ID the next new invoice will get",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(appInstance.Session.NextID(context.Background()))
		return nil
	},
}

var invoicesExportCmd = &cobra.Command{
	Use:   "export [id]",
	Short: "Write a saved invoice to a text file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		inv, err := appInstance.InvoiceRepo.FindByID(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get invoice: %w", err)
		}

		dir, _ := cmd.Flags().GetString("out")
		if dir == "" {
			dir = appInstance.Config.Invoice.OutputDir
		}

		path, err := export.WriteFile(dir, inv, exportOptions(ctx, inv))
		if err != nil {
			return err
		}

		fmt.Printf("✓ Invoice written to %s\n", path)
		return nil
	},
}

var invoicesQRCmd = &cobra.Command{
	Use:   "qr [id]",
	Short: "Print the UPI payment link for a saved invoice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		inv, err := appInstance.InvoiceRepo.FindByID(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get invoice: %w", err)
		}

		fmt.Println(appInstance.Session.PayloadFor(ctx, inv))
		return nil
	},
}

func exportOptions(ctx context.Context, inv *domain.InvoiceRecord) export.Options {
	return export.Options{
		PayeeName: appInstance.Config.Payment.PayeeName,
		Payload:   appInstance.Session.PayloadFor(ctx, inv),
	}
}

func setItem(set func(int, domain.ItemField, string) error, index int, spec itemSpec) error {
	fields := []struct {
		field domain.ItemField
		raw   string
	}{
		{domain.FieldName, spec.name},
		{domain.FieldPrice, spec.price},
		{domain.FieldQty, spec.qty},
	}
	for _, f := range fields {
		if err := set(index, f.field, f.raw); err != nil {
			return fmt.Errorf("failed to set item %d: %w", index+1, err)
		}
	}
	return nil
}

func describeSaveError(err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fmt.Errorf("invoice ID is required: %w", err)
	case errors.Is(err, domain.ErrStorageDenied):
		return fmt.Errorf("storage unavailable, invoice not saved: %w", err)
	default:
		return fmt.Errorf("failed to save invoice: %w", err)
	}
}

func init() {
	invoicesCmd.AddCommand(invoicesListCmd)
	invoicesCmd.AddCommand(invoicesShowCmd)
	invoicesCmd.AddCommand(invoicesNewCmd)
	invoicesCmd.AddCommand(invoicesNextIDCmd)
	invoicesCmd.AddCommand(invoicesExportCmd)
	invoicesCmd.AddCommand(invoicesQRCmd)

	// New flags
	invoicesNewCmd.Flags().String("id", "", "Invoice ID (defaults to the next sequential ID)")
	invoicesNewCmd.Flags().String("date", "", "Invoice date (defaults to today)")
	invoicesNewCmd.Flags().String("client", "", "Client name")
	invoicesNewCmd.Flags().String("address", "", "Client address")
	invoicesNewCmd.Flags().StringArray("item", nil, "Line item as name:price[:qty] (repeatable)")
	invoicesNewCmd.Flags().String("qr", "", "Path to a custom QR image shown instead of the UPI link")
	invoicesNewCmd.Flags().Bool("overwrite", false, "Replace an existing invoice with the same ID without asking")

	// Export flags
	invoicesExportCmd.Flags().String("out", "", "Output directory (defaults to invoice.output_dir)")
}
