package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const appDirName = "invoicer"

type Config struct {
	// Database settings
	Database DatabaseConfig `yaml:"database"`

	// Invoice numbering and export settings
	Invoice InvoiceConfig `yaml:"invoice"`

	// Payment QR settings
	Payment PaymentConfig `yaml:"payment"`

	// Log file settings
	Log LogConfig `yaml:"log"`
}

type DatabaseConfig struct {
	Path   string `yaml:"path"`   // Path to the SQLite database
	Driver string `yaml:"driver"` // "sqlcipher" (encrypted), "sqlite" (plain) or "memory" (nothing persisted)
}

type InvoiceConfig struct {
	IDPrefix  string `yaml:"id_prefix"`  // Invoice ID prefix (e.g., "BL")
	DefaultID string `yaml:"default_id"` // ID used when no invoice has been saved yet
	OutputDir string `yaml:"output_dir"` // Directory for exported invoices
}

type PaymentConfig struct {
	PayeeName    string `yaml:"payee_name"`     // pn= parameter of the UPI link
	DefaultUPIID string `yaml:"default_upi_id"` // Used until a UPI ID is saved
}

type LogConfig struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"` // debug, info, warn, error
}

// Driver names accepted in DatabaseConfig.Driver
const (
	DriverSQLCipher = "sqlcipher"
	DriverSQLite    = "sqlite"
	DriverMemory    = "memory"
)

// DefaultConfigPath returns ~/.config/invoicer/config.yaml
func DefaultConfigPath() string {
	return filepath.Join(baseDir(), "config.yaml")
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	dir := baseDir()

	return &Config{
		Database: DatabaseConfig{
			Path:   filepath.Join(dir, "invoicer.db"),
			Driver: DriverSQLCipher,
		},
		Invoice: InvoiceConfig{
			IDPrefix:  "BL",
			DefaultID: "BL-25-12-01",
			OutputDir: filepath.Join(dir, "invoices"),
		},
		Payment: PaymentConfig{
			PayeeName:    "Brandlift",
			DefaultUPIID: "brandlift@upi",
		},
		Log: LogConfig{
			Path:  filepath.Join(dir, "invoicer.log"),
			Level: "info",
		},
	}
}

// Load loads config from the given path, or returns defaults if file doesn't exist
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Unset keys keep their defaults
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDefault loads from the default config path
func LoadDefault() (*Config, error) {
	return Load(DefaultConfigPath())
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// EnsureDirectories creates the database, export and log directories
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		filepath.Dir(c.Database.Path),
		c.Invoice.OutputDir,
		filepath.Dir(c.Log.Path),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

// baseDir returns ~/.config/invoicer, falling back to ./.config/invoicer
func baseDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", appDirName)
	}
	return filepath.Join(homeDir, ".config", appDirName)
}
