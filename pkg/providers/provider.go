// Package providers implements a uniform interface over the public image
// APIs the tool can download from, plus the registry that selects between
// them.
package providers

import (
	"context"

	"github.com/DeadSignalFound/catgirl-CLI/pkg/models"
)

// FetchRequest is the generic request every adapter understands.
type FetchRequest struct {
	Theme     models.Theme
	Rating    models.UserRating
	Count     int
	Randomize bool
}

// Capability declares what a provider supports. It is static per adapter.
type Capability struct {
	Themes       []models.Theme
	Ratings      []models.UserRating
	RatingFilter bool
	RatingNotes  string
}

// SupportsTheme reports whether the provider declares support for theme.
func (c Capability) SupportsTheme(theme models.Theme) bool {
	for _, supported := range c.Themes {
		if supported == theme {
			return true
		}
	}
	return false
}

// SupportsRating reports whether the provider declares support for rating.
func (c Capability) SupportsRating(rating models.UserRating) bool {
	for _, supported := range c.Ratings {
		if supported == rating {
			return true
		}
	}
	return false
}

// Provider adapts one backend API. Fetch returns an empty slice (not an
// error) for unsupported theme/rating combinations and for count <= 0;
// network and malformed-response failures come back as an error the caller
// treats as recoverable.
type Provider interface {
	Name() string
	Capabilities() Capability
	Fetch(ctx context.Context, req FetchRequest) ([]models.RemoteImage, error)
}

// CredentialChecker is implemented by providers that cannot operate without
// static credentials.
type CredentialChecker interface {
	CheckCredentials() error
}
