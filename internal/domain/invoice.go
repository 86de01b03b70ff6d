package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format used in stored records
const DateLayout = "2006-01-02"

// Date is a calendar date. The zero value is an unset date and
// round-trips through JSON as an empty string.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string; an empty string yields the zero Date
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("expected format YYYY-MM-DD: %w", err)
	}
	return Date{Time: t}, nil
}

// String returns the date as YYYY-MM-DD, or "" when unset
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON implements json.Marshaler
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// InvoiceRecord is a saved snapshot of one invoice
type InvoiceRecord struct {
	ID            string     `json:"id"`
	Date          Date       `json:"date"`
	ClientName    string     `json:"clientName"`
	ClientAddress string     `json:"clientAddress"`
	Items         []LineItem `json:"items"`
	SavedAt       time.Time  `json:"savedAt"`
}

// Total returns the sum of price * qty over the record's items
func (r *InvoiceRecord) Total() float64 {
	var total float64
	for _, item := range r.Items {
		total += item.Amount()
	}
	return total
}

// Clone returns a deep copy of the record
func (r *InvoiceRecord) Clone() *InvoiceRecord {
	c := *r
	c.Items = CopyItems(r.Items)
	return &c
}

// Validate returns an error if the record cannot be saved
func (r *InvoiceRecord) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrValidation)
	}
	return nil
}
