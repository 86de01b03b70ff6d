package db

import (
	"path/filepath"
	"testing"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	database, err := Open("sqlite", filepath.Join(t.TempDir(), "test.db"), "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer database.Close()

	if err := database.RunMigrations(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// Second run must be a no-op
	if err := database.RunMigrations(); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	var count int
	if err := database.QueryRow("SELECT COUNT(*) FROM kv_store").Scan(&count); err != nil {
		t.Fatalf("kv_store missing: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty kv_store, got %d rows", count)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open("postgres", filepath.Join(t.TempDir(), "x.db"), ""); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestOpenSQLCipherRequiresPassword(t *testing.T) {
	if _, err := Open("sqlcipher", filepath.Join(t.TempDir(), "x.db"), ""); err == nil {
		t.Fatalf("expected error for missing password")
	}
}
