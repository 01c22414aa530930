package repl

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/DeadSignalFound/catgirl-CLI/pkg/config"
	"github.com/DeadSignalFound/catgirl-CLI/pkg/models"
	"github.com/DeadSignalFound/catgirl-CLI/pkg/providers"
)

const (
	minCount   = 1
	maxCount   = 200
	minTimeout = 1
	maxTimeout = 120
)

// Session holds the mutable state of an interactive shell. Each `run`
// command reads the current values; `set` mutates them.
type Session struct {
	Count     int
	Provider  string
	Theme     models.Theme
	Rating    models.UserRating
	Randomize bool
	OutputDir string
	Timeout   int // seconds
	Verbose   bool

	providerNames []string
}

// NewSession seeds a session from the loaded configuration.
func NewSession(cfg *config.Config, providerNames []string) *Session {
	return &Session{
		Count:         1,
		Provider:      providers.AutoProvider,
		Theme:         models.ThemeCatgirl,
		Rating:        models.UserRatingAny,
		OutputDir:     cfg.Output.BaseDirectory,
		Timeout:       int(cfg.HTTP.Timeout.Seconds()),
		providerNames: providerNames,
	}
}

// Fields returns the settable field names in display order.
func (s *Session) Fields() []string {
	return []string{"count", "provider", "theme", "rating", "randomize", "out", "timeout", "verbose"}
}

// Pairs returns the current settings as name/value pairs for display.
func (s *Session) Pairs() [][2]string {
	return [][2]string{
		{"count", strconv.Itoa(s.Count)},
		{"provider", s.Provider},
		{"theme", string(s.Theme)},
		{"rating", string(s.Rating)},
		{"randomize", strconv.FormatBool(s.Randomize)},
		{"out", s.OutputDir},
		{"timeout", strconv.Itoa(s.Timeout)},
		{"verbose", strconv.FormatBool(s.Verbose)},
	}
}

// canonicalField resolves field name aliases.
func canonicalField(field string) string {
	switch strings.ToLower(field) {
	case "random", "r":
		return "randomize"
	case "output", "dir":
		return "out"
	default:
		return strings.ToLower(field)
	}
}

// Set validates and applies one field assignment.
func (s *Session) Set(field, value string) error {
	switch canonicalField(field) {
	case "count":
		n, err := strconv.Atoi(value)
		if err != nil || n < minCount || n > maxCount {
			return fmt.Errorf("count must be an integer between %d and %d", minCount, maxCount)
		}
		s.Count = n
	case "provider":
		name := strings.ToLower(value)
		if !s.validProvider(name) {
			return fmt.Errorf("unknown provider %q. Valid: %s", value, strings.Join(s.ProviderChoices(), ", "))
		}
		s.Provider = name
	case "theme":
		theme, ok := models.ParseTheme(value)
		if !ok {
			return fmt.Errorf("unknown theme %q. Valid: %s", value, joinThemes())
		}
		s.Theme = theme
	case "rating":
		rating, ok := models.ParseUserRating(value)
		if !ok {
			return fmt.Errorf("unknown rating %q. Valid: %s", value, joinRatings())
		}
		s.Rating = rating
	case "randomize":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		s.Randomize = b
	case "out":
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("output directory cannot be empty")
		}
		s.OutputDir = value
	case "timeout":
		n, err := strconv.Atoi(value)
		if err != nil || n < minTimeout || n > maxTimeout {
			return fmt.Errorf("timeout must be an integer between %d and %d seconds", minTimeout, maxTimeout)
		}
		s.Timeout = n
	case "verbose":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		s.Verbose = b
	default:
		return fmt.Errorf("unknown setting %q. Valid: %s", field, strings.Join(s.Fields(), ", "))
	}
	return nil
}

// ProviderChoices returns the valid provider values, auto first.
func (s *Session) ProviderChoices() []string {
	names := make([]string, 0, len(s.providerNames)+1)
	names = append(names, providers.AutoProvider)
	sorted := make([]string, len(s.providerNames))
	copy(sorted, s.providerNames)
	sort.Strings(sorted)
	return append(names, sorted...)
}

func (s *Session) validProvider(name string) bool {
	if name == providers.AutoProvider {
		return true
	}
	for _, candidate := range s.providerNames {
		if candidate == name {
			return true
		}
	}
	return false
}

// ValuesFor returns the completion suggestions for a settable field.
func (s *Session) ValuesFor(field string) []string {
	switch canonicalField(field) {
	case "provider":
		return s.ProviderChoices()
	case "theme":
		values := make([]string, len(models.Themes))
		for i, theme := range models.Themes {
			values[i] = string(theme)
		}
		return values
	case "rating":
		values := make([]string, len(models.UserRatings))
		for i, rating := range models.UserRatings {
			values[i] = string(rating)
		}
		return values
	case "randomize", "verbose":
		return []string{"true", "false"}
	default:
		return nil
	}
}

var boolValues = map[string]bool{
	"true": true, "yes": true, "y": true, "1": true, "on": true,
	"false": false, "no": false, "n": false, "0": false, "off": false,
}

func parseBool(value string) (bool, error) {
	b, ok := boolValues[strings.ToLower(value)]
	if !ok {
		return false, fmt.Errorf("expected a boolean value (true/false), got %q", value)
	}
	return b, nil
}

func joinThemes() string {
	names := make([]string, len(models.Themes))
	for i, theme := range models.Themes {
		names[i] = string(theme)
	}
	return strings.Join(names, ", ")
}

func joinRatings() string {
	names := make([]string, len(models.UserRatings))
	for i, rating := range models.UserRatings {
		names[i] = string(rating)
	}
	return strings.Join(names, ", ")
}
