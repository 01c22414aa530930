package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeadSignalFound/catgirl-CLI/pkg/models"
)

func TestSafetyBucket(t *testing.T) {
	assert.Equal(t, "sfw", SafetyBucket(models.RatingSafe))
	assert.Equal(t, "nsfw", SafetyBucket(models.RatingSuggestive))
	assert.Equal(t, "nsfw", SafetyBucket(models.RatingBorderline))
	assert.Equal(t, "nsfw", SafetyBucket(models.RatingExplicit))
	assert.Equal(t, "unknown", SafetyBucket(models.RatingUnknown))
	assert.Equal(t, "unknown", SafetyBucket(models.Rating("")))
}

func TestDirFor(t *testing.T) {
	base := t.TempDir()
	manager, err := NewManager(base)
	require.NoError(t, err)

	dir, err := manager.DirFor(models.ThemeCatgirl, models.RatingSafe)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "sfw", "catgirl", "safe"), dir)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Unclassifiable ratings land in the unknown subfolder.
	dir, err = manager.DirFor(models.ThemeFemboy, models.RatingUnknown)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "unknown", "femboy", "unknown"), dir)
}

func TestExtensionFor(t *testing.T) {
	tests := []struct {
		contentType string
		url         string
		expected    string
	}{
		{"image/jpeg", "https://cdn.example/a", ".jpg"},
		{"image/png", "https://cdn.example/a", ".png"},
		{"image/svg+xml", "https://cdn.example/a", ".svg"},
		{"image/gif; charset=binary", "https://cdn.example/a", ".gif"},
		{"text/html", "https://cdn.example/a.png", ".png"},
		{"", "https://cdn.example/a.WEBP", ".webp"},
		{"", "https://cdn.example/a", ".img"},
		{"image/x-icon", "https://cdn.example/a", ".ico"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, ExtensionFor(tt.contentType, tt.url),
			"content type %q url %q", tt.contentType, tt.url)
	}
}

func TestBuildFilename(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	name := BuildFilename("waifu_pics", "https://cdn.example/a.png", ".png", now)

	assert.True(t, strings.HasPrefix(name, "waifu_pics_20250314T092653_"))
	assert.True(t, strings.HasSuffix(name, ".png"))

	// Same URL yields the same digest, different URLs differ.
	again := BuildFilename("waifu_pics", "https://cdn.example/a.png", ".png", now)
	assert.Equal(t, name, again)
	other := BuildFilename("waifu_pics", "https://cdn.example/b.png", ".png", now)
	assert.NotEqual(t, name, other)

	// Bare extensions get a dot prepended.
	bare := BuildFilename("e621", "https://cdn.example/c", "jpg", now)
	assert.True(t, strings.HasSuffix(bare, ".jpg"))
}

func TestSaveAtomic(t *testing.T) {
	base := t.TempDir()
	manager, err := NewManager(base)
	require.NoError(t, err)

	path := filepath.Join(base, "image.png")
	data := []byte("not really a png")
	require.NoError(t, manager.Save(path, data))

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, written)

	// No temp files left behind.
	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.False(t, strings.HasSuffix(entry.Name(), ".tmp"), "leftover temp file %s", entry.Name())
	}
}
