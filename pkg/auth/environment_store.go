package auth

import "os"

// EnvironmentStore reads provider credentials from environment variables,
// which the CLI seeds from a local .env file at startup.
type EnvironmentStore struct{}

// NewEnvironmentStore creates an environment-based credential store.
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Retrieve gets credentials for the named provider from the environment.
func (e *EnvironmentStore) Retrieve(provider string) (*Credentials, error) {
	switch provider {
	case "e621":
		userAgent := os.Getenv("E621_USER_AGENT")
		if userAgent == "" {
			return nil, ErrCredentialsNotFound
		}
		return &Credentials{Provider: provider, UserAgent: userAgent}, nil
	case "rule34":
		userID := os.Getenv("RULE34_USER_ID")
		apiKey := os.Getenv("RULE34_API_KEY")
		if userID == "" || apiKey == "" {
			return nil, ErrCredentialsNotFound
		}
		return &Credentials{Provider: provider, UserID: userID, APIKey: apiKey}, nil
	default:
		return nil, ErrCredentialsNotFound
	}
}
