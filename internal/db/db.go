package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mutecomm/go-sqlcipher/v4" // registers "sqlite3"
	_ "modernc.org/sqlite"                  // registers "sqlite"
)

type DB struct {
	*sql.DB
}

// Open opens the SQLite database at dbPath using the named driver.
// "sqlcipher" encrypts the file with password; "sqlite" opens a plain
// file with the pure Go driver and ignores password.
func Open(driver, dbPath, password string) (*DB, error) {
	// Create parent directories if they don't exist
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	switch driver {
	case "sqlcipher", "":
		if password == "" {
			return nil, fmt.Errorf("encrypted database requires a password")
		}
		sqlDB, err = sql.Open("sqlite3", fmt.Sprintf("%s?_key=%s", dbPath, password))
	case "sqlite":
		sqlDB, err = sql.Open("sqlite", dbPath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection keeps PRAGMAs and the single-writer model simple
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.Exec("PRAGMA journal_mode = WAL"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: sqlDB}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
