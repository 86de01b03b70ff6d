// Package store provides the key-value persistence the invoice history is kept in.
package store

import "context"

// Store is a string key-value store. Failures are returned, never panicked.
type Store interface {
	// Get returns the value stored under key; ok is false when the key is absent
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value atomically
	Set(ctx context.Context, key, value string) error

	// Delete removes key; deleting an absent key is not an error
	Delete(ctx context.Context, key string) error
}
