package leaderboard

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	keyringService    = "spooder-solitaire"
	dreamloPrivateKey = "dreamlo/private"
)

// KeyStore resolves the dreamlo private key. The environment wins; otherwise the
// OS keyring is consulted so the key does not have to live in .env files.
type KeyStore struct {
	service string
	envVar  string
}

// NewKeyStore creates a key store reading envVar before the keyring
func NewKeyStore(envVar string) *KeyStore {
	return &KeyStore{service: keyringService, envVar: envVar}
}

// PrivateKey returns the dreamlo private key, or "" when none is configured
func (k *KeyStore) PrivateKey() (string, error) {
	if k.envVar != "" {
		if v := strings.TrimSpace(os.Getenv(k.envVar)); v != "" {
			return v, nil
		}
	}

	v, err := keyring.Get(k.service, dreamloPrivateKey)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("leaderboard: keyring get: %w", err)
	}
	return v, nil
}

// SetPrivateKey stores the dreamlo private key in the OS keyring
func (k *KeyStore) SetPrivateKey(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("leaderboard: private key is required")
	}
	if err := keyring.Set(k.service, dreamloPrivateKey, value); err != nil {
		return fmt.Errorf("leaderboard: keyring set: %w", err)
	}
	return nil
}

// DeletePrivateKey removes the stored key; a missing key is not an error
func (k *KeyStore) DeletePrivateKey() error {
	if err := keyring.Delete(k.service, dreamloPrivateKey); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("leaderboard: keyring delete: %w", err)
	}
	return nil
}
