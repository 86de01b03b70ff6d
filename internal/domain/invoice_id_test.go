package domain

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestNextInvoiceID(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		now      time.Time
		want     string
	}{
		{"empty returns default", nil, date(2030, 1, 1), DefaultFirstID},
		{"max suffix plus one", []string{"BL-25-12-07", "X-1-3"}, date(2025, 12, 15), "BL-25-12-08"},
		{"new month keeps counter and grows past two digits", []string{"BL-24-01-99"}, date(2025, 6, 1), "BL-25-06-100"},
		{"unparsable suffixes ignored", []string{"BL-25-12-xx", "draft"}, date(2025, 12, 1), "BL-25-12-01"},
		{"leading digits parsed", []string{"BL-25-12-04b"}, date(2025, 12, 1), "BL-25-12-05"},
		{"id without delimiter", []string{"42"}, date(2026, 3, 9), "BL-26-03-43"},
		{"single digit padded", []string{"BL-25-11-1"}, date(2026, 2, 2), "BL-26-02-02"},
		{"year 2100 keeps two digits", []string{"BL-99-12-10"}, date(2100, 1, 1), "BL-00-01-11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextInvoiceID(DefaultIDPrefix, DefaultFirstID, tt.existing, tt.now)
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
