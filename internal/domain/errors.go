package domain

import "errors"

var (
	// ErrValidation marks user input that is missing or invalid (e.g. an empty invoice ID on save).
	ErrValidation = errors.New("validation error")

	// ErrStorageDenied marks a persistent store that is unavailable or rejected a write.
	ErrStorageDenied = errors.New("storage denied")

	// ErrSaveInProgress marks a save attempted while another save of the session is running.
	ErrSaveInProgress = errors.New("a save is already in progress")

	// ErrNotFound marks a lookup by ID that missed.
	ErrNotFound = errors.New("not found")

	// ErrIndexOutOfRange marks a line item index outside the ledger bounds.
	ErrIndexOutOfRange = errors.New("line item index out of range")

	// ErrUnknownField marks a line item field name other than name, price or qty.
	ErrUnknownField = errors.New("unknown line item field")
)
