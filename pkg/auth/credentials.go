// Package auth resolves provider credentials from the environment with an
// optional system-keychain fallback.
package auth

import "errors"

var (
	// ErrCredentialsNotFound indicates no store holds credentials for the provider.
	ErrCredentialsNotFound = errors.New("credentials not found")
	// ErrStoreUnavailable indicates the backing store cannot be used.
	ErrStoreUnavailable = errors.New("credential store unavailable")
)

// Credentials holds the static credential material for one provider.
// Fields that a provider does not use stay empty.
type Credentials struct {
	Provider  string `json:"provider"`
	UserAgent string `json:"user_agent,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	APIKey    string `json:"api_key,omitempty"`
}

// Store is the interface for retrieving provider credentials.
type Store interface {
	Retrieve(provider string) (*Credentials, error)
}

// Manager resolves credentials by querying stores in order.
type Manager struct {
	stores []Store
}

// NewManager creates a Manager that prefers environment variables and falls
// back to the system keychain when available.
func NewManager() *Manager {
	stores := []Store{NewEnvironmentStore()}
	if keyringStore, err := NewKeyringStore(); err == nil {
		stores = append(stores, keyringStore)
	}
	return &Manager{stores: stores}
}

// NewManagerWithStores creates a Manager over explicit stores, mainly for tests.
func NewManagerWithStores(stores ...Store) *Manager {
	return &Manager{stores: stores}
}

// Retrieve returns the first matching credentials for the provider.
func (m *Manager) Retrieve(provider string) (*Credentials, error) {
	for _, store := range m.stores {
		creds, err := store.Retrieve(provider)
		if err == nil {
			return creds, nil
		}
		if !errors.Is(err, ErrCredentialsNotFound) && !errors.Is(err, ErrStoreUnavailable) {
			return nil, err
		}
	}
	return nil, ErrCredentialsNotFound
}
