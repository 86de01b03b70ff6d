package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/repository"
)

// SessionState is the save state machine of a session
type SessionState int

const (
	StateEditing SessionState = iota
	StateSaving
)

func (s SessionState) String() string {
	if s == StateSaving {
		return "saving"
	}
	return "editing"
}

// ChangeKind identifies a session change notification
type ChangeKind int

const (
	// ChangeTotals fires whenever items or the item list change; Change.Total is the new grand total
	ChangeTotals ChangeKind = iota
	// ChangeFields fires when ID, date or client fields change
	ChangeFields
	// ChangeHistory fires after a successful save; history views should reload
	ChangeHistory
	// ChangeQRReset fires when a custom QR image is discarded by new or load
	ChangeQRReset
)

// Change is delivered to session subscribers
type Change struct {
	Kind  ChangeKind
	Total float64
}

// Listener receives session changes. It is called synchronously with the
// session lock released and must not block.
type Listener func(Change)

// SessionOptions configures a Session
type SessionOptions struct {
	IDPrefix     string
	DefaultID    string
	PayeeName    string
	DefaultUPIID string

	// Now defaults to time.Now
	Now    func() time.Time
	Logger *slog.Logger
}

// Session holds the one invoice currently being edited
type Session struct {
	invoices repository.InvoiceRepository
	settings repository.SettingsRepository
	opts     SessionOptions
	logger   *slog.Logger

	mu            sync.Mutex
	state         SessionState
	id            string
	date          domain.Date
	clientName    string
	clientAddress string
	ledger        *domain.Ledger
	customQR      string

	listenersMu sync.Mutex
	listeners   []Listener
}

// NewSession creates a session in the Editing state with a single blank item.
// Call StartNew to assign the next invoice ID.
func NewSession(
	invoices repository.InvoiceRepository,
	settings repository.SettingsRepository,
	opts SessionOptions,
) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.IDPrefix == "" {
		opts.IDPrefix = domain.DefaultIDPrefix
	}
	if opts.DefaultID == "" {
		opts.DefaultID = domain.DefaultFirstID
	}
	if opts.PayeeName == "" {
		opts.PayeeName = domain.DefaultPayeeName
	}
	if opts.DefaultUPIID == "" {
		opts.DefaultUPIID = domain.DefaultUPIID
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Session{
		invoices: invoices,
		settings: settings,
		opts:     opts,
		logger:   logger,
		date:     domain.NewDate(opts.Now()),
		ledger:   domain.NewLedger([]domain.LineItem{domain.NewLineItem()}),
	}
}

// Subscribe registers l for change notifications
func (s *Session) Subscribe(l Listener) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *Session) emit(changes ...Change) {
	s.listenersMu.Lock()
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.listenersMu.Unlock()

	for _, c := range changes {
		for _, l := range listeners {
			l(c)
		}
	}
}

// StartNew resets the session to a blank invoice with the next sequential ID
func (s *Session) StartNew(ctx context.Context) {
	ids := s.existingIDs(ctx)

	s.mu.Lock()
	now := s.opts.Now()
	s.id = domain.NextInvoiceID(s.opts.IDPrefix, s.opts.DefaultID, ids, now)
	s.date = domain.NewDate(now)
	s.clientName = ""
	s.clientAddress = ""
	s.ledger.Replace([]domain.LineItem{domain.NewLineItem()})
	s.customQR = ""
	s.state = StateEditing
	id, total := s.id, s.ledger.Total()
	s.mu.Unlock()

	s.logger.Debug("new invoice started", "id", id)
	s.emit(Change{Kind: ChangeQRReset}, Change{Kind: ChangeFields}, Change{Kind: ChangeTotals, Total: total})
}

// NextID returns the ID StartNew would assign right now
func (s *Session) NextID(ctx context.Context) string {
	return domain.NextInvoiceID(s.opts.IDPrefix, s.opts.DefaultID, s.existingIDs(ctx), s.opts.Now())
}

func (s *Session) existingIDs(ctx context.Context) []string {
	records := s.invoices.ListAll(ctx)
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}
	return ids
}

// Save persists the current invoice. When the ID already exists and overwrite
// is false, nothing is written and SaveDeclined is returned so the caller can
// ask the user and retry with overwrite set.
func (s *Session) Save(ctx context.Context, overwrite bool) (repository.SaveResult, error) {
	s.mu.Lock()
	if s.state == StateSaving {
		s.mu.Unlock()
		return repository.SaveDeclined, domain.ErrSaveInProgress
	}
	if strings.TrimSpace(s.id) == "" {
		s.mu.Unlock()
		return repository.SaveDeclined, fmt.Errorf("%w: missing id", domain.ErrValidation)
	}
	record := &domain.InvoiceRecord{
		ID:            s.id,
		Date:          s.date,
		ClientName:    s.clientName,
		ClientAddress: s.clientAddress,
		Items:         s.ledger.Snapshot(),
		SavedAt:       s.opts.Now().UTC(),
	}
	s.state = StateSaving
	s.mu.Unlock()

	result, err := s.invoices.Save(ctx, record, overwrite)

	s.mu.Lock()
	s.state = StateEditing
	s.mu.Unlock()

	if err != nil {
		return result, err
	}
	if result != repository.SaveDeclined {
		s.emit(Change{Kind: ChangeHistory})
	}
	return result, nil
}

// Load replaces the session with a copy of record
func (s *Session) Load(record *domain.InvoiceRecord) {
	s.mu.Lock()
	s.id = record.ID
	s.date = record.Date
	s.clientName = record.ClientName
	s.clientAddress = record.ClientAddress
	s.ledger.Replace(record.Items)
	s.customQR = ""
	s.state = StateEditing
	total := s.ledger.Total()
	s.mu.Unlock()

	s.emit(Change{Kind: ChangeQRReset}, Change{Kind: ChangeFields}, Change{Kind: ChangeTotals, Total: total})
}

// LoadByID finds a saved invoice and loads it
func (s *Session) LoadByID(ctx context.Context, id string) error {
	record, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return err
	}
	s.Load(record)
	return nil
}

// History returns saved invoices, newest first
func (s *Session) History(ctx context.Context) []*domain.InvoiceRecord {
	records := s.invoices.ListAll(ctx)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].SavedAt.After(records[j].SavedAt)
	})
	return records
}

// State returns the current save state
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current returns a copy of the session fields as an unsaved record
func (s *Session) Current() *domain.InvoiceRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &domain.InvoiceRecord{
		ID:            s.id,
		Date:          s.date,
		ClientName:    s.clientName,
		ClientAddress: s.clientAddress,
		Items:         s.ledger.Snapshot(),
	}
}

func (s *Session) setField(apply func()) {
	s.mu.Lock()
	apply()
	s.mu.Unlock()
	s.emit(Change{Kind: ChangeFields})
}

func (s *Session) SetID(id string) { s.setField(func() { s.id = id }) }

func (s *Session) SetDate(d domain.Date) { s.setField(func() { s.date = d }) }

func (s *Session) SetClientName(name string) { s.setField(func() { s.clientName = name }) }

func (s *Session) SetClientAddress(addr string) { s.setField(func() { s.clientAddress = addr }) }

// AddItem appends a blank line item
func (s *Session) AddItem() {
	s.mutateLedger(func(l *domain.Ledger) error {
		l.Add()
		return nil
	})
}

// RemoveItem removes the line item at index
func (s *Session) RemoveItem(index int) error {
	return s.mutateLedger(func(l *domain.Ledger) error {
		return l.RemoveAt(index)
	})
}

// SetItemField updates a line item field from raw input
func (s *Session) SetItemField(index int, field domain.ItemField, raw string) error {
	return s.mutateLedger(func(l *domain.Ledger) error {
		return l.SetField(index, field, raw)
	})
}

func (s *Session) mutateLedger(fn func(*domain.Ledger) error) error {
	s.mu.Lock()
	err := fn(s.ledger)
	total := s.ledger.Total()
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.emit(Change{Kind: ChangeTotals, Total: total})
	return nil
}

// Items returns a copy of the current line items
func (s *Session) Items() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Snapshot()
}

// Total returns the current grand total
func (s *Session) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Total()
}

// UPIID returns the saved UPI ID, falling back to the configured default
func (s *Session) UPIID(ctx context.Context) string {
	if id := s.settings.UPIID(ctx); id != "" {
		return id
	}
	return s.opts.DefaultUPIID
}

// SetUPIID persists the UPI ID used in payment payloads
func (s *Session) SetUPIID(ctx context.Context, upiID string) error {
	if err := s.settings.SetUPIID(ctx, upiID); err != nil {
		return err
	}
	s.emit(Change{Kind: ChangeTotals, Total: s.Total()})
	return nil
}

// PaymentPayload returns the UPI link for the current total
func (s *Session) PaymentPayload(ctx context.Context) string {
	return domain.PaymentPayload(s.UPIID(ctx), s.opts.PayeeName, s.Total())
}

// PayloadFor returns the UPI link for a saved record
func (s *Session) PayloadFor(ctx context.Context, record *domain.InvoiceRecord) string {
	return domain.PaymentPayload(s.UPIID(ctx), s.opts.PayeeName, record.Total())
}

// UseCustomQR makes presentation show the image at path instead of a generated
// QR code until the next StartNew or Load. An empty path clears the override.
func (s *Session) UseCustomQR(path string) {
	s.mu.Lock()
	s.customQR = path
	total := s.ledger.Total()
	s.mu.Unlock()

	if path == "" {
		s.emit(Change{Kind: ChangeQRReset}, Change{Kind: ChangeTotals, Total: total})
	}
}

// CustomQR returns the custom QR image path, if one is active
func (s *Session) CustomQR() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.customQR, s.customQR != ""
}
