package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/store"
)

// SettingsRepo stores user preferences as plain values in the key-value store
type SettingsRepo struct {
	store  store.Store
	logger *slog.Logger
}

// NewSettingsRepo creates a new SettingsRepo
func NewSettingsRepo(s store.Store, logger *slog.Logger) *SettingsRepo {
	if logger == nil {
		logger = slog.Default()
	}
	return &SettingsRepo{store: s, logger: logger}
}

func (r *SettingsRepo) UPIID(ctx context.Context) string {
	v, ok, err := r.store.Get(ctx, UPIIDKey)
	if err != nil {
		r.logger.Warn("UPI ID unreadable", "error", err)
		return ""
	}
	if !ok {
		return ""
	}
	return v
}

func (r *SettingsRepo) SetUPIID(ctx context.Context, upiID string) error {
	if err := r.store.Set(ctx, UPIIDKey, strings.TrimSpace(upiID)); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorageDenied, err)
	}
	return nil
}
