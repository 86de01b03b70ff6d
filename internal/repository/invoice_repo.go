package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/store"
)

// errUndecodable marks a stored history that is readable but not a record array
var errUndecodable = errors.New("failed to decode invoices")

// InvoiceRepo keeps the invoice history as one JSON array under InvoicesKey
type InvoiceRepo struct {
	store  store.Store
	logger *slog.Logger

	// serializes the read-modify-write in Save
	mu sync.Mutex
}

// NewInvoiceRepo creates a new InvoiceRepo
func NewInvoiceRepo(s store.Store, logger *slog.Logger) *InvoiceRepo {
	if logger == nil {
		logger = slog.Default()
	}
	return &InvoiceRepo{store: s, logger: logger}
}

// ListAll returns every saved record in storage order
func (r *InvoiceRepo) ListAll(ctx context.Context) []*domain.InvoiceRecord {
	records, err := r.read(ctx)
	if err != nil {
		r.logger.Warn("invoice history unreadable, treating as empty", "error", err)
		return make([]*domain.InvoiceRecord, 0)
	}
	return records
}

// Save stores a copy of record. If a record with the same ID exists and overwrite
// is false, nothing is written and SaveDeclined is returned.
func (r *InvoiceRepo) Save(ctx context.Context, record *domain.InvoiceRecord, overwrite bool) (SaveResult, error) {
	if err := record.Validate(); err != nil {
		return SaveDeclined, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.read(ctx)
	switch {
	case errors.Is(err, errUndecodable):
		r.logger.Warn("invoice history undecodable, starting fresh", "error", err)
		records = make([]*domain.InvoiceRecord, 0)
	case err != nil:
		return SaveDeclined, fmt.Errorf("%w: %w", domain.ErrStorageDenied, err)
	}

	result := SaveCreated
	existing := -1
	for i, rec := range records {
		if rec.ID == record.ID {
			existing = i
			break
		}
	}

	if existing >= 0 {
		if !overwrite {
			return SaveDeclined, nil
		}
		records[existing] = record.Clone()
		records = dropDuplicates(records, existing)
		result = SaveReplaced
	} else {
		records = append(records, record.Clone())
	}

	data, err := json.Marshal(records)
	if err != nil {
		return SaveDeclined, fmt.Errorf("failed to encode invoices: %w", err)
	}

	if err := r.store.Set(ctx, InvoicesKey, string(data)); err != nil {
		r.logger.Error("invoice save rejected by storage", "id", record.ID, "error", err)
		return SaveDeclined, fmt.Errorf("%w: %w", domain.ErrStorageDenied, err)
	}

	r.logger.Info("invoice saved", "id", record.ID, "result", result.String(), "count", len(records))
	return result, nil
}

// FindByID returns a copy of the record with the given ID
func (r *InvoiceRepo) FindByID(ctx context.Context, id string) (*domain.InvoiceRecord, error) {
	for _, rec := range r.ListAll(ctx) {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("invoice %q: %w", id, domain.ErrNotFound)
}

// Clear removes the whole history
func (r *InvoiceRepo) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.Delete(ctx, InvoicesKey); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorageDenied, err)
	}
	return nil
}

func (r *InvoiceRepo) read(ctx context.Context) ([]*domain.InvoiceRecord, error) {
	raw, ok, err := r.store.Get(ctx, InvoicesKey)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return make([]*domain.InvoiceRecord, 0), nil
	}

	var records []*domain.InvoiceRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("%w: %w", errUndecodable, err)
	}

	// A JSON null or null entries decode without error but carry no records
	out := make([]*domain.InvoiceRecord, 0, len(records))
	for _, rec := range records {
		if rec != nil {
			out = append(out, rec)
		}
	}
	return out, nil
}

// dropDuplicates removes entries after keep that share its ID
func dropDuplicates(records []*domain.InvoiceRecord, keep int) []*domain.InvoiceRecord {
	id := records[keep].ID
	out := records[:keep+1]
	for _, rec := range records[keep+1:] {
		if rec.ID != id {
			out = append(out, rec)
		}
	}
	return out
}
