package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRating(t *testing.T) {
	tests := []struct {
		input    string
		expected Rating
	}{
		{"safe", RatingSafe},
		{"SAFE", RatingSafe},
		{" suggestive ", RatingSuggestive},
		{"borderline", RatingBorderline},
		{"explicit", RatingExplicit},
		{"unknown", RatingUnknown},
		{"questionable", RatingUnknown},
		{"", RatingUnknown},
		{"nsfw", RatingUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, NormalizeRating(tt.input), "input %q", tt.input)
	}
}

func TestParseTheme(t *testing.T) {
	t.Run("canonical names", func(t *testing.T) {
		for _, theme := range Themes {
			parsed, ok := ParseTheme(string(theme))
			assert.True(t, ok)
			assert.Equal(t, theme, parsed)
		}
	})

	t.Run("plural aliases", func(t *testing.T) {
		aliases := map[string]Theme{
			"catgirls": ThemeCatgirl,
			"nekos":    ThemeNeko,
			"femboys":  ThemeFemboy,
		}
		for alias, expected := range aliases {
			parsed, ok := ParseTheme(alias)
			assert.True(t, ok, "alias %q", alias)
			assert.Equal(t, expected, parsed)
		}
	})

	t.Run("case and whitespace", func(t *testing.T) {
		parsed, ok := ParseTheme("  Kitsune ")
		assert.True(t, ok)
		assert.Equal(t, ThemeKitsune, parsed)
	})

	t.Run("invalid", func(t *testing.T) {
		_, ok := ParseTheme("dragon")
		assert.False(t, ok)
	})
}

func TestParseUserRating(t *testing.T) {
	parsed, ok := ParseUserRating("ANY")
	assert.True(t, ok)
	assert.Equal(t, UserRatingAny, parsed)

	_, ok = ParseUserRating("unknown")
	assert.False(t, ok, "unknown is not a requestable rating")
}
