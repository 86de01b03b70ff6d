// Package export renders invoice records as plain text.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/andy/invoicer/internal/domain"
)

// PreviewDateLayout is how dates appear on a rendered invoice (dd/mm/yyyy)
const PreviewDateLayout = "02/01/2006"

// Options carries the parts of a rendered invoice that do not live on the record
type Options struct {
	PayeeName string
	// Payload is the UPI link printed under the total
	Payload string
	// CustomQR replaces the payload with a user supplied QR image path
	CustomQR string
}

// FormatMoney formats an amount as "1500 Rs"
func FormatMoney(amount float64) string {
	return domain.FormatAmount(amount) + " Rs"
}

// FormatDate renders d for display, or "" for an unset date
func FormatDate(d domain.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(PreviewDateLayout)
}

// VisibleItems returns the items a rendered invoice shows. Rows with no name
// and no price are skipped; they still count toward the total.
func VisibleItems(items []domain.LineItem) []domain.LineItem {
	visible := make([]domain.LineItem, 0, len(items))
	for _, item := range items {
		if item.Visible() {
			visible = append(visible, item)
		}
	}
	return visible
}

// Text renders rec as a fixed-width text invoice
func Text(rec *domain.InvoiceRecord, opts Options) string {
	var b strings.Builder

	sep := strings.Repeat("=", 60)
	line := strings.Repeat("-", 60)

	b.WriteString("INVOICE\n")
	b.WriteString(sep + "\n")
	b.WriteString(fmt.Sprintf("Invoice #:  %s\n", rec.ID))
	b.WriteString(fmt.Sprintf("Date:       %s\n", FormatDate(rec.Date)))

	if opts.PayeeName != "" {
		b.WriteString("\nFrom:\n")
		b.WriteString(fmt.Sprintf("  %s\n", opts.PayeeName))
	}

	b.WriteString("\nBill To:\n")
	if rec.ClientName != "" {
		b.WriteString(fmt.Sprintf("  %s\n", rec.ClientName))
	}
	for _, addrLine := range strings.Split(rec.ClientAddress, "\n") {
		if strings.TrimSpace(addrLine) != "" {
			b.WriteString(fmt.Sprintf("  %s\n", addrLine))
		}
	}

	b.WriteString("\n" + line + "\n")
	b.WriteString(fmt.Sprintf("%-28s %12s %6s %12s\n", "Item", "Price", "Qty", "Amount"))
	b.WriteString(line + "\n")

	for _, item := range VisibleItems(rec.Items) {
		name := item.Name
		if len(name) > 28 {
			name = name[:25] + "..."
		}
		b.WriteString(fmt.Sprintf("%-28s %12s %6s %12s\n",
			name,
			FormatMoney(item.Price),
			domain.FormatAmount(item.Qty),
			FormatMoney(item.Amount()),
		))
	}

	b.WriteString(line + "\n")
	b.WriteString(fmt.Sprintf("%47s %12s\n", "TOTAL", FormatMoney(rec.Total())))
	b.WriteString(sep + "\n")

	switch {
	case opts.CustomQR != "":
		b.WriteString(fmt.Sprintf("\nScan to pay: %s\n", opts.CustomQR))
	case opts.Payload != "":
		b.WriteString(fmt.Sprintf("\nPay via UPI: %s\n", opts.Payload))
	}

	return b.String()
}

// FileName returns the export file name for an invoice ID
func FileName(id string) string {
	name := strings.NewReplacer("/", "_", "\\", "_", string(filepath.Separator), "_").Replace(strings.TrimSpace(id))
	if name == "" {
		name = "invoice"
	}
	return name + ".txt"
}

// WriteFile renders rec into dir and returns the written path
func WriteFile(dir string, rec *domain.InvoiceRecord, opts Options) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	filePath := filepath.Join(dir, FileName(rec.ID))
	if err := os.WriteFile(filePath, []byte(Text(rec, opts)), 0644); err != nil {
		return "", fmt.Errorf("failed to write invoice: %w", err)
	}

	return filePath, nil
}
