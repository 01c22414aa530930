package auth

import (
	"encoding/json"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "catgirl-cli"
	keyringPrefix  = "provider_"
)

// KeyringStore reads provider credentials from the system keychain.
type KeyringStore struct{}

// NewKeyringStore creates a keyring-based credential store, probing the
// keychain once so headless environments fail fast.
func NewKeyringStore() (*KeyringStore, error) {
	testKey := "test_availability"
	if err := keyring.Set(keyringService, testKey, "test"); err != nil {
		return nil, fmt.Errorf("keyring not available: %w", err)
	}
	_ = keyring.Delete(keyringService, testKey)
	return &KeyringStore{}, nil
}

// Retrieve gets credentials for the named provider from the keychain.
func (k *KeyringStore) Retrieve(provider string) (*Credentials, error) {
	if provider == "" {
		return nil, ErrCredentialsNotFound
	}

	data, err := keyring.Get(keyringService, keyringPrefix+provider)
	if err != nil {
		if err == keyring.ErrNotFound {
			return nil, ErrCredentialsNotFound
		}
		return nil, fmt.Errorf("failed to retrieve from keyring: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal([]byte(data), &creds); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credentials: %w", err)
	}
	creds.Provider = provider
	return &creds, nil
}

// Delete removes stored credentials for the named provider.
func (k *KeyringStore) Delete(provider string) error {
	if provider == "" {
		return ErrCredentialsNotFound
	}
	if err := keyring.Delete(keyringService, keyringPrefix+provider); err != nil {
		if err == keyring.ErrNotFound {
			return ErrCredentialsNotFound
		}
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}
	return nil
}

// Save stores credentials in the keychain so they survive across shells.
func (k *KeyringStore) Save(creds *Credentials) error {
	if creds == nil || creds.Provider == "" {
		return ErrStoreUnavailable
	}
	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}
	if err := keyring.Set(keyringService, keyringPrefix+creds.Provider, string(data)); err != nil {
		return fmt.Errorf("failed to store in keyring: %w", err)
	}
	return nil
}
