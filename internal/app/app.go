package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"syscall"

	"github.com/andy/invoicer/internal/config"
	"github.com/andy/invoicer/internal/crypto"
	"github.com/andy/invoicer/internal/db"
	"github.com/andy/invoicer/internal/logging"
	"github.com/andy/invoicer/internal/repository"
	"github.com/andy/invoicer/internal/service"
	"github.com/andy/invoicer/internal/store"
	"golang.org/x/term"
)

// App is the dependency injection container for all application components
type App struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *db.DB // nil for the memory driver
	Store  store.Store

	// Repositories
	InvoiceRepo  repository.InvoiceRepository
	SettingsRepo repository.SettingsRepository

	// The single invoice being edited
	Session *service.Session

	logCloser io.Closer
}

// New creates a new App instance, initializing all dependencies
// It handles:
// 1. Loading config
// 2. Opening the log file
// 3. Getting the encryption key from the keyring (sqlcipher only)
// 4. Opening the store and running migrations
// 5. Creating repositories and the session
func New(ctx context.Context) (*App, error) {
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return NewWithConfig(ctx, cfg)
}

// NewWithConfig creates an App with a provided config (useful for testing)
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	logger, logCloser, err := logging.OpenFile(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Logger: logger, logCloser: logCloser}

	if err := a.openStore(); err != nil {
		a.Close()
		return nil, err
	}

	a.InvoiceRepo = repository.NewInvoiceRepo(a.Store, logger)
	a.SettingsRepo = repository.NewSettingsRepo(a.Store, logger)

	a.Session = service.NewSession(a.InvoiceRepo, a.SettingsRepo, service.SessionOptions{
		IDPrefix:     cfg.Invoice.IDPrefix,
		DefaultID:    cfg.Invoice.DefaultID,
		PayeeName:    cfg.Payment.PayeeName,
		DefaultUPIID: cfg.Payment.DefaultUPIID,
		Logger:       logger,
	})
	a.Session.StartNew(ctx)

	logger.Info("invoicer started", "driver", cfg.Database.Driver, "db", cfg.Database.Path)
	return a, nil
}

func (a *App) openStore() error {
	cfg := a.Config.Database

	switch cfg.Driver {
	case config.DriverMemory:
		a.Store = store.NewMemoryStore()
		return nil

	case config.DriverSQLite:
		database, err := db.Open(config.DriverSQLite, cfg.Path, "")
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		return a.attachDB(database)

	case config.DriverSQLCipher, "":
		password, err := databaseKey()
		if err != nil {
			return err
		}
		database, err := db.Open(config.DriverSQLCipher, cfg.Path, password)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		return a.attachDB(database)

	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func (a *App) attachDB(database *db.DB) error {
	if err := database.RunMigrations(); err != nil {
		database.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	a.DB = database
	a.Store = store.NewSQLStore(database)
	return nil
}

// databaseKey fetches the encryption key, prompting for a new one on first run
func databaseKey() (string, error) {
	kr := crypto.NewKeyring()

	password, err := kr.GetKey()
	if err == nil {
		return password, nil
	}
	if !errors.Is(err, crypto.ErrNoKey) {
		return "", err
	}

	fmt.Println("Setting up database encryption for the first time...")
	password, err = promptForPassword()
	if err != nil {
		return "", fmt.Errorf("failed to set password: %w", err)
	}
	if err := kr.SetKey(password); err != nil {
		return "", fmt.Errorf("failed to store encryption key: %w", err)
	}
	return password, nil
}

// Close cleanly shuts down the application
func (a *App) Close() error {
	var errs []error
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	if a.logCloser != nil {
		errs = append(errs, a.logCloser.Close())
	}
	return errors.Join(errs...)
}

// promptForPassword prompts user for a new database password (first run)
func promptForPassword() (string, error) {
	fmt.Println()
	fmt.Println("Your invoice history will be encrypted with a password.")
	fmt.Println("This password will be stored securely in your system keyring.")
	fmt.Println()
	fmt.Print("Enter a password for database encryption: ")

	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if len(password) == 0 {
		return "", fmt.Errorf("password cannot be empty")
	}

	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}

	if string(password) != string(confirm) {
		return "", fmt.Errorf("passwords do not match")
	}

	fmt.Println()
	fmt.Println("✓ Database encryption configured successfully")
	fmt.Println()

	return string(password), nil
}

// SaveConfig saves the current configuration to disk
func (a *App) SaveConfig() error {
	return a.Config.Save(config.DefaultConfigPath())
}
