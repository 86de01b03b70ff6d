package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/andy/invoicer/internal/domain"
)

func sampleRecord() *domain.InvoiceRecord {
	return &domain.InvoiceRecord{
		ID:            "BL-25-12-07",
		Date:          domain.NewDate(time.Date(2025, 12, 3, 0, 0, 0, 0, time.UTC)),
		ClientName:    "Acme Studio",
		ClientAddress: "12 MG Road\nBengaluru",
		Items: []domain.LineItem{
			{Name: "Logo design", Price: 1500, Qty: 1},
			{Name: "", Price: 0, Qty: 1},
			{Name: "Revisions", Price: 250, Qty: 2},
		},
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "0 Rs"},
		{200, "200 Rs"},
		{12.5, "12.5 Rs"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.amount); got != tt.want {
			t.Errorf("FormatMoney(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate(domain.Date{}); got != "" {
		t.Errorf("expected empty string for unset date, got %q", got)
	}
	d := domain.NewDate(time.Date(2025, 12, 3, 0, 0, 0, 0, time.UTC))
	if got := FormatDate(d); got != "03/12/2025" {
		t.Errorf("expected 03/12/2025, got %q", got)
	}
}

func TestVisibleItemsSkipsBlankRows(t *testing.T) {
	got := VisibleItems(sampleRecord().Items)
	if len(got) != 2 {
		t.Fatalf("expected 2 visible items, got %d", len(got))
	}
	if got[1].Name != "Revisions" {
		t.Errorf("expected order to be kept, got %q", got[1].Name)
	}
}

func TestTextContents(t *testing.T) {
	out := Text(sampleRecord(), Options{
		PayeeName: "Brandlift",
		Payload:   "upi://pay?pa=brandlift@upi&pn=Brandlift&am=2000",
	})

	for _, want := range []string{
		"Invoice #:  BL-25-12-07",
		"Date:       03/12/2025",
		"Acme Studio",
		"  Bengaluru",
		"Logo design",
		"1500 Rs",
		"500 Rs",
		"2000 Rs",
		"Pay via UPI: upi://pay?pa=brandlift@upi&pn=Brandlift&am=2000",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q\n%s", want, out)
		}
	}
}

func TestTextCustomQRReplacesPayload(t *testing.T) {
	out := Text(sampleRecord(), Options{
		Payload:  "upi://pay?pa=x&pn=y&am=1",
		CustomQR: "/tmp/gpay.png",
	})
	if strings.Contains(out, "upi://") {
		t.Errorf("custom QR should suppress the generated payload")
	}
	if !strings.Contains(out, "/tmp/gpay.png") {
		t.Errorf("expected custom QR path in output")
	}
}

func TestFileName(t *testing.T) {
	tests := map[string]string{
		"BL-25-12-07": "BL-25-12-07.txt",
		"a/b":         "a_b.txt",
		"  ":          "invoice.txt",
	}
	for id, want := range tests {
		if got := FileName(id); got != want {
			t.Errorf("FileName(%q) = %q, want %q", id, got, want)
		}
	}
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	path, err := WriteFile(dir, sampleRecord(), Options{})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if filepath.Base(path) != "BL-25-12-07.txt" {
		t.Errorf("unexpected file name %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.HasPrefix(string(data), "INVOICE\n") {
		t.Errorf("unexpected file contents:\n%s", data)
	}
}
