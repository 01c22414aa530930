// Package storage handles the on-disk layout of downloaded images and
// atomic file writes.
package storage

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/DeadSignalFound/catgirl-CLI/pkg/models"
)

// Images land under <base>/<safety>/<theme>/<rating>/ where safety is one of
// sfw, nsfw or unknown.
type Manager struct {
	baseDir string
}

// NewManager creates a storage manager rooted at baseDir, creating the root
// if needed.
func NewManager(baseDir string) (*Manager, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Manager{baseDir: baseDir}, nil
}

// BaseDir returns the root output directory.
func (m *Manager) BaseDir() string {
	return m.baseDir
}

// SafetyBucket maps a rating onto the top-level safety folder.
func SafetyBucket(rating models.Rating) string {
	switch rating {
	case models.RatingSafe:
		return "sfw"
	case models.RatingSuggestive, models.RatingBorderline, models.RatingExplicit:
		return "nsfw"
	default:
		return "unknown"
	}
}

// DirFor returns (and creates) the destination directory for an image with
// the given theme and rating.
func (m *Manager) DirFor(theme models.Theme, rating models.Rating) (string, error) {
	normalizedTheme := strings.ToLower(strings.TrimSpace(string(theme)))
	if normalizedTheme == "" {
		normalizedTheme = "unknown"
	}
	normalizedRating := strings.ToLower(strings.TrimSpace(string(rating)))
	if normalizedRating == "" {
		normalizedRating = "unknown"
	}

	dir := filepath.Join(m.baseDir, SafetyBucket(rating), normalizedTheme, normalizedRating)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}
	return dir, nil
}

var (
	extensionPattern = regexp.MustCompile(`^\.[a-z0-9]{1,10}$`)
	subtypePattern   = regexp.MustCompile(`^[a-z0-9]{1,10}$`)
)

var contentTypeExtensions = map[string]string{
	"jpeg":               "jpg",
	"pjpeg":              "jpg",
	"svg+xml":            "svg",
	"x-icon":             "ico",
	"vnd.microsoft.icon": "ico",
}

// ExtensionFor derives a file extension from the response content type,
// falling back to the URL path suffix and finally ".img".
func ExtensionFor(contentType, rawURL string) string {
	if contentType != "" {
		normalized := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
		if subtype, ok := strings.CutPrefix(normalized, "image/"); ok {
			mapped, found := contentTypeExtensions[subtype]
			if !found {
				mapped = subtype
			}
			if idx := strings.Index(mapped, "+"); idx >= 0 {
				mapped = mapped[:idx]
			}
			if subtypePattern.MatchString(mapped) {
				return "." + mapped
			}
		}
	}

	if parsed, err := url.Parse(rawURL); err == nil {
		suffix := strings.ToLower(filepath.Ext(parsed.Path))
		if extensionPattern.MatchString(suffix) {
			return suffix
		}
	}
	return ".img"
}

// BuildFilename produces a collision-resistant file name of the form
// <provider>_<UTC timestamp>_<sha1 prefix><ext>.
func BuildFilename(provider, rawURL, extension string, now time.Time) string {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	digest := sha1.Sum([]byte(rawURL))
	if !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}
	return fmt.Sprintf("%s_%s_%s%s",
		provider,
		now.UTC().Format("20060102T150405"),
		hex.EncodeToString(digest[:])[:10],
		extension,
	)
}

// Save writes data to path atomically via a temp file and rename.
func (m *Manager) Save(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+"_*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write image data: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}
