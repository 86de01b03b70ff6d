package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Ledger owns the mutable list of line items for the invoice being edited.
// Totals are always derived from the current items; nothing is cached.
type Ledger struct {
	items []LineItem
}

// NewLedger creates a ledger holding a copy of items
func NewLedger(items []LineItem) *Ledger {
	return &Ledger{items: CopyItems(items)}
}

// Len returns the number of items
func (l *Ledger) Len() int {
	return len(l.items)
}

// Item returns the item at index
func (l *Ledger) Item(index int) (LineItem, error) {
	if err := l.checkIndex(index); err != nil {
		return LineItem{}, err
	}
	return l.items[index], nil
}

// Add appends a blank item
func (l *Ledger) Add() {
	l.items = append(l.items, NewLineItem())
}

// RemoveAt removes the item at index
func (l *Ledger) RemoveAt(index int) error {
	if err := l.checkIndex(index); err != nil {
		return err
	}
	l.items = append(l.items[:index], l.items[index+1:]...)
	return nil
}

// SetField updates one field of the item at index from raw user input.
// Numeric fields that fail to parse are stored as 0.
func (l *Ledger) SetField(index int, field ItemField, raw string) error {
	if err := l.checkIndex(index); err != nil {
		return err
	}

	switch field {
	case FieldName:
		l.items[index].Name = raw
	case FieldPrice:
		l.items[index].Price = parseAmount(raw)
	case FieldQty:
		l.items[index].Qty = parseAmount(raw)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// Total returns the sum of price * qty over all items
func (l *Ledger) Total() float64 {
	var total float64
	for _, item := range l.items {
		total += item.Amount()
	}
	return total
}

// Snapshot returns an independent copy of the items
func (l *Ledger) Snapshot() []LineItem {
	return CopyItems(l.items)
}

// Replace installs a copy of items, dropping the previous list
func (l *Ledger) Replace(items []LineItem) {
	l.items = CopyItems(items)
}

func (l *Ledger) checkIndex(index int) error {
	if index < 0 || index >= len(l.items) {
		return fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, index, len(l.items))
	}
	return nil
}

// parseAmount parses a price or quantity, degrading anything unusable to 0
func parseAmount(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
