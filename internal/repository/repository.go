package repository

import (
	"context"

	"github.com/andy/invoicer/internal/domain"
)

// Keys under which state is kept in the key-value store
const (
	InvoicesKey = "brandlift_invoices"
	UPIIDKey    = "brandlift_upi_id"
)

// SaveResult reports what a save did
type SaveResult int

const (
	// SaveCreated means the record was appended as a new ID
	SaveCreated SaveResult = iota
	// SaveReplaced means an existing record with the same ID was overwritten
	SaveReplaced
	// SaveDeclined means the ID already existed and overwrite was not confirmed; nothing changed
	SaveDeclined
)

func (r SaveResult) String() string {
	switch r {
	case SaveCreated:
		return "created"
	case SaveReplaced:
		return "replaced"
	case SaveDeclined:
		return "declined"
	default:
		return "unknown"
	}
}

// InvoiceRepository manages the saved invoice history
type InvoiceRepository interface {
	// ListAll returns every saved record in storage order. Unreadable storage yields an empty list.
	ListAll(ctx context.Context) []*domain.InvoiceRecord
	// Save creates or, when overwrite is true, replaces the record with the same ID
	Save(ctx context.Context, record *domain.InvoiceRecord, overwrite bool) (SaveResult, error)
	FindByID(ctx context.Context, id string) (*domain.InvoiceRecord, error)
	// Clear removes the whole history
	Clear(ctx context.Context) error
}

// SettingsRepository manages persisted user preferences
type SettingsRepository interface {
	// UPIID returns the saved UPI ID, or "" when none is saved or storage is unreadable
	UPIID(ctx context.Context) string
	SetUPIID(ctx context.Context, upiID string) error
}
