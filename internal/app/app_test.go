package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/andy/invoicer/internal/config"
	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/repository"
)

func testConfig(t *testing.T, driver string) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Database.Driver = driver
	cfg.Database.Path = filepath.Join(root, "invoicer.db")
	cfg.Invoice.OutputDir = filepath.Join(root, "invoices")
	cfg.Log.Path = filepath.Join(root, "invoicer.log")
	return cfg
}

func TestNewWithConfigSQLitePersistsAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, config.DriverSQLite)

	a, err := NewWithConfig(ctx, cfg)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if got := a.Session.Current().ID; got != domain.DefaultFirstID {
		t.Fatalf("expected first ID %q, got %q", domain.DefaultFirstID, got)
	}
	_ = a.Session.SetItemField(0, domain.FieldPrice, "250")
	if res, err := a.Session.Save(ctx, false); err != nil || res != repository.SaveCreated {
		t.Fatalf("save: %v, %v", res, err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	b, err := NewWithConfig(ctx, cfg)
	if err != nil {
		t.Fatalf("reopen app: %v", err)
	}
	defer b.Close()

	if got := len(b.Session.History(ctx)); got != 1 {
		t.Fatalf("expected 1 saved invoice after restart, got %d", got)
	}
	if got := b.Session.Current().ID; got == domain.DefaultFirstID {
		t.Fatalf("expected a fresh ID after restart, got %q", got)
	}
}

func TestNewWithConfigMemoryDriver(t *testing.T) {
	a, err := NewWithConfig(context.Background(), testConfig(t, config.DriverMemory))
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()

	if a.DB != nil {
		t.Fatalf("memory driver should not open a database")
	}
}

func TestNewWithConfigRejectsUnknownDriver(t *testing.T) {
	if _, err := NewWithConfig(context.Background(), testConfig(t, "mongo")); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
