package credential

import (
	"errors"
	"fmt"
	"os"

	"github.com/99designs/keyring"
)

const serviceName = "tracker"

// Well-known credential keys.
const (
	StoreDSNKey      = "store-dsn"
	RedisPasswordKey = "redis-password"
)

// Environment variables that take precedence over the keyring.
const (
	EnvIMAPPassword = "TRACKER_IMAP_PASSWORD"
	EnvStoreDSN     = "TRACKER_STORE_DSN"
	EnvRedisPass    = "TRACKER_REDIS_PASSWORD"
)

// ErrNotFound is returned when a credential is neither in the environment
// nor in the keyring.
var ErrNotFound = errors.New("credential not found")

// IMAPKey returns the keyring key holding the IMAP password of username.
func IMAPKey(username string) string {
	return "imap-" + username
}

// opener is replaced in tests with an in-memory keyring.
var opener = openKeyring

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/tracker/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("tracker-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Get retrieves a credential value by key from the system keyring.
func Get(key string) (string, error) {
	ring, err := opener()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", fmt.Errorf("getting credential %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}

	return string(item.Data), nil
}

// Set stores a credential value by key in the system keyring.
func Set(key string, value string) error {
	ring, err := opener()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:  key,
		Data: []byte(value),
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}

	return nil
}

// Delete removes a credential by key from the system keyring.
func Delete(key string) error {
	ring, err := opener()
	if err != nil {
		return err
	}

	err = ring.Remove(key)
	if err != nil {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}

	return nil
}

// Lookup returns the value of envVar when set, otherwise the keyring
// entry for key.
func Lookup(envVar, key string) (string, error) {
	if v := os.Getenv(envVar); v != "" {
		return v, nil
	}
	return Get(key)
}
