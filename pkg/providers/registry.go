package providers

import (
	"fmt"
	"strings"

	"github.com/DeadSignalFound/catgirl-CLI/pkg/auth"
	"github.com/DeadSignalFound/catgirl-CLI/pkg/config"
	"github.com/DeadSignalFound/catgirl-CLI/pkg/logger"
	"github.com/DeadSignalFound/catgirl-CLI/pkg/models"
)

// AutoProvider is the provider name that triggers automatic selection.
const AutoProvider = "auto"

// Registry holds the adapter set. It is populated once at startup and
// read-only afterwards.
type Registry struct {
	providers map[string]Provider
	order     []string
	autoOrder map[models.Theme][]string
	logger    logger.Logger
}

// NewRegistry builds the full adapter set. Credentials for e621 and rule34
// come from the config when set there, otherwise from the credential store.
func NewRegistry(client *Client, cfg *config.Config, creds auth.Store, log logger.Logger) *Registry {
	e621UserAgent := cfg.Providers.E621UserAgent
	rule34UserID := cfg.Providers.Rule34UserID
	rule34APIKey := cfg.Providers.Rule34APIKey
	if creds != nil {
		if e621UserAgent == "" {
			if c, err := creds.Retrieve("e621"); err == nil {
				e621UserAgent = c.UserAgent
			}
		}
		if rule34UserID == "" || rule34APIKey == "" {
			if c, err := creds.Retrieve("rule34"); err == nil {
				rule34UserID = c.UserID
				rule34APIKey = c.APIKey
			}
		}
	}

	registry := &Registry{
		providers: make(map[string]Provider),
		autoOrder: autoOrderFromConfig(cfg),
		logger:    log,
	}
	for _, provider := range []Provider{
		NewWaifuPics(client, log),
		NewNekosAPI(client, log),
		NewNekosBest(client, log),
		NewNekosLife(client, log),
		NewNekobot(client, log),
		NewE621(client, e621UserAgent, log),
		NewRule34(client, rule34UserID, rule34APIKey, log),
	} {
		registry.register(provider)
	}
	return registry
}

// NewRegistryWithProviders builds a registry over explicit adapters, mainly
// for tests.
func NewRegistryWithProviders(autoOrder map[models.Theme][]string, log logger.Logger, adapters ...Provider) *Registry {
	registry := &Registry{
		providers: make(map[string]Provider),
		autoOrder: autoOrder,
		logger:    log,
	}
	for _, provider := range adapters {
		registry.register(provider)
	}
	return registry
}

func (r *Registry) register(provider Provider) {
	r.providers[provider.Name()] = provider
	r.order = append(r.order, provider.Name())
}

func autoOrderFromConfig(cfg *config.Config) map[models.Theme][]string {
	order := make(map[models.Theme][]string, len(cfg.Providers.AutoOrder))
	for theme, names := range cfg.Providers.AutoOrder {
		order[models.Theme(theme)] = names
	}
	return order
}

// Get returns the named adapter.
func (r *Registry) Get(name string) (Provider, error) {
	provider, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", name)
	}
	return provider, nil
}

// Names lists all provider names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// ProviderRow is one line of the `providers` capability listing.
type ProviderRow struct {
	Name         string
	Themes       string
	RatingFilter string
	RatingNotes  string
	Status       string
}

// Rows returns the capability listing in registration order.
func (r *Registry) Rows() []ProviderRow {
	rows := make([]ProviderRow, 0, len(r.order))
	for _, name := range r.order {
		caps := r.providers[name].Capabilities()
		ratingFilter := "no"
		if caps.RatingFilter {
			ratingFilter = "yes"
		}
		rows = append(rows, ProviderRow{
			Name:         name,
			Themes:       joinThemes(caps.Themes),
			RatingFilter: ratingFilter,
			RatingNotes:  caps.RatingNotes,
			Status:       "enabled",
		})
	}
	return rows
}

// CategoryMappings returns provider-to-theme pairs in registration order.
func (r *Registry) CategoryMappings() [][2]string {
	mappings := make([][2]string, 0, len(r.order))
	for _, name := range r.order {
		mappings = append(mappings, [2]string{name, joinThemes(r.providers[name].Capabilities().Themes)})
	}
	return mappings
}

func joinThemes(themes []models.Theme) string {
	names := make([]string, len(themes))
	for i, theme := range themes {
		names[i] = string(theme)
	}
	return strings.Join(names, ",")
}

// defaultAutoOrder is used for themes missing from the configured table.
var defaultAutoOrder = []string{"nekos_best", "nekos_life", "nekosapi", "waifu_pics", "nekobot"}

// AutoOrder returns the providers to try for a theme and rating, in priority
// order, filtered to adapters whose declared capabilities cover both.
func (r *Registry) AutoOrder(theme models.Theme, rating models.UserRating) []Provider {
	names, ok := r.autoOrder[theme]
	if !ok {
		names = defaultAutoOrder
	}

	var matched []Provider
	for _, name := range names {
		provider, ok := r.providers[name]
		if !ok {
			r.logger.WithField("provider", name).Warn("auto order references unknown provider")
			continue
		}
		caps := provider.Capabilities()
		if !caps.SupportsTheme(theme) || !caps.SupportsRating(rating) {
			continue
		}
		matched = append(matched, provider)
	}
	return matched
}
