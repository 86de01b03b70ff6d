package crypto

import (
	"errors"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"
)

const (
	ServiceName = "invoicer"
	KeyName     = "db-encryption-key"

	// EnvKey overrides the system keyring, e.g. on headless machines without a secret service
	EnvKey = "INVOICER_DB_KEY"
)

// ErrNoKey is returned when no encryption key has been stored yet
var ErrNoKey = errors.New("encryption key not found")

// Keyring stores the database encryption key
type Keyring interface {
	GetKey() (string, error)
	SetKey(password string) error
	DeleteKey() error
}

// SystemKeyring keeps the key in the OS secret store (Keychain, Secret Service,
// Windows Credential Manager). EnvKey, when set, takes precedence.
type SystemKeyring struct {
	service string
	user    string
}

// NewKeyring returns the keyring for the database key
func NewKeyring() *SystemKeyring {
	return &SystemKeyring{service: ServiceName, user: KeyName}
}

// GetKey returns the key from EnvKey or the system keyring
func (k *SystemKeyring) GetKey() (string, error) {
	if key := os.Getenv(EnvKey); key != "" {
		return key, nil
	}

	key, err := keyring.Get(k.service, k.user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNoKey
		}
		return "", fmt.Errorf("failed to read key from system keyring (set %s instead): %w", EnvKey, err)
	}
	if key == "" {
		return "", ErrNoKey
	}
	return key, nil
}

// SetKey stores the key in the system keyring
func (k *SystemKeyring) SetKey(password string) error {
	if password == "" {
		return errors.New("password cannot be empty")
	}
	if err := keyring.Set(k.service, k.user, password); err != nil {
		return fmt.Errorf("failed to store key in system keyring (set %s instead): %w", EnvKey, err)
	}
	return nil
}

// DeleteKey removes the key from the system keyring
func (k *SystemKeyring) DeleteKey() error {
	if err := keyring.Delete(k.service, k.user); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNoKey
		}
		return fmt.Errorf("failed to delete key from system keyring: %w", err)
	}
	return nil
}
