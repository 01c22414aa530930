// Package models defines the shared value types passed between the CLI,
// the provider adapters and the download orchestrator.
package models

import "strings"

// Theme is a requested subject category.
type Theme string

const (
	ThemeCatgirl Theme = "catgirl"
	ThemeNeko    Theme = "neko"
	ThemeKitsune Theme = "kitsune"
	ThemeFemboy  Theme = "femboy"
)

// Themes lists all valid themes in display order.
var Themes = []Theme{ThemeCatgirl, ThemeNeko, ThemeKitsune, ThemeFemboy}

var themeAliases = map[string]Theme{
	"catgirls": ThemeCatgirl,
	"nekos":    ThemeNeko,
	"kitsunes": ThemeKitsune,
	"femboys":  ThemeFemboy,
}

// ParseTheme parses a theme name, accepting plural aliases.
func ParseTheme(value string) (Theme, bool) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if alias, ok := themeAliases[normalized]; ok {
		return alias, true
	}
	for _, theme := range Themes {
		if normalized == string(theme) {
			return theme, true
		}
	}
	return "", false
}

// Rating is the content classification attached to a fetched image.
// Unlike UserRating it never contains "any": an image either has a known
// tier or is "unknown".
type Rating string

const (
	RatingSafe       Rating = "safe"
	RatingSuggestive Rating = "suggestive"
	RatingBorderline Rating = "borderline"
	RatingExplicit   Rating = "explicit"
	RatingUnknown    Rating = "unknown"
)

// NormalizeRating maps an arbitrary rating string onto the known vocabulary,
// falling back to RatingUnknown.
func NormalizeRating(value string) Rating {
	switch Rating(strings.ToLower(strings.TrimSpace(value))) {
	case RatingSafe:
		return RatingSafe
	case RatingSuggestive:
		return RatingSuggestive
	case RatingBorderline:
		return RatingBorderline
	case RatingExplicit:
		return RatingExplicit
	default:
		return RatingUnknown
	}
}

// UserRating is the rating filter a user requests.
type UserRating string

const (
	UserRatingAny        UserRating = "any"
	UserRatingSafe       UserRating = "safe"
	UserRatingSuggestive UserRating = "suggestive"
	UserRatingBorderline UserRating = "borderline"
	UserRatingExplicit   UserRating = "explicit"
)

// UserRatings lists all valid user ratings in display order.
var UserRatings = []UserRating{
	UserRatingAny,
	UserRatingSafe,
	UserRatingSuggestive,
	UserRatingBorderline,
	UserRatingExplicit,
}

// ParseUserRating parses a user-supplied rating filter.
func ParseUserRating(value string) (UserRating, bool) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, rating := range UserRatings {
		if normalized == string(rating) {
			return rating, true
		}
	}
	return "", false
}

// RemoteImage is a single fetch candidate produced by a provider adapter.
// It is immutable once created.
type RemoteImage struct {
	Provider string
	Theme    Theme
	URL      string
	Rating   Rating
	Tags     []string
}

// DownloadStatus classifies the outcome of a single download attempt.
type DownloadStatus string

const (
	StatusOK               DownloadStatus = "ok"
	StatusFailed           DownloadStatus = "failed"
	StatusSkippedDuplicate DownloadStatus = "skipped_duplicate"
)

// DownloadResult records one attempted download. It is never mutated after
// the orchestrator creates it.
type DownloadResult struct {
	URL      string
	Path     string
	Provider string
	Status   DownloadStatus
	Error    string
}

// DownloadSummary aggregates the results of one run.
type DownloadSummary struct {
	Requested  int
	Downloaded int
	Failed     int
	Duplicates int
	OutputDir  string
}
