package providers

import (
	"context"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeadSignalFound/catgirl-CLI/pkg/logger"
	"github.com/DeadSignalFound/catgirl-CLI/pkg/models"
)

func allAdapters(t *testing.T, client *Client) []Provider {
	t.Helper()
	log := logger.NewTestLogger()
	return []Provider{
		NewWaifuPics(client, log),
		NewNekosAPI(client, log),
		NewNekosBest(client, log),
		NewNekosLife(client, log),
		NewNekobot(client, log),
		NewE621(client, "tester/1.0", log),
		NewRule34(client, "42", "key", log),
	}
}

func TestFetchZeroCountNeverCallsNetwork(t *testing.T) {
	var calls atomic.Int64
	client := newMockClient(t, func(req *http.Request) (*http.Response, error) {
		calls.Add(1)
		return jsonResponse(http.StatusOK, map[string]string{}), nil
	})

	for _, provider := range allAdapters(t, client) {
		for _, theme := range models.Themes {
			results, err := provider.Fetch(context.Background(), FetchRequest{
				Theme:  theme,
				Rating: models.UserRatingAny,
				Count:  0,
			})
			assert.NoError(t, err, "%s/%s", provider.Name(), theme)
			assert.Empty(t, results, "%s/%s", provider.Name(), theme)
		}
	}
	assert.Zero(t, calls.Load())
}

func TestFetchUnsupportedThemeReturnsEmpty(t *testing.T) {
	var calls atomic.Int64
	client := newMockClient(t, func(req *http.Request) (*http.Response, error) {
		calls.Add(1)
		return jsonResponse(http.StatusOK, map[string]string{}), nil
	})

	for _, provider := range allAdapters(t, client) {
		for _, theme := range models.Themes {
			if provider.Capabilities().SupportsTheme(theme) {
				continue
			}
			results, err := provider.Fetch(context.Background(), FetchRequest{
				Theme:  theme,
				Rating: models.UserRatingAny,
				Count:  3,
			})
			assert.NoError(t, err, "%s/%s", provider.Name(), theme)
			assert.Empty(t, results, "%s/%s", provider.Name(), theme)
		}
	}
	assert.Zero(t, calls.Load())
}

func TestWaifuPics(t *testing.T) {
	t.Run("safe catgirl hits the sfw neko endpoint", func(t *testing.T) {
		client := newMockClient(t, func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "/sfw/neko", req.URL.Path)
			return jsonResponse(http.StatusOK, map[string]string{"url": "https://i.waifu.pics/a.png"}), nil
		})
		provider := NewWaifuPics(client, logger.NewTestLogger())

		results, err := provider.Fetch(context.Background(), FetchRequest{
			Theme:  models.ThemeCatgirl,
			Rating: models.UserRatingSafe,
			Count:  2,
		})
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, models.RatingSafe, results[0].Rating)
		assert.Equal(t, "waifu_pics", results[0].Provider)
	})

	t.Run("safe femboy is a documented zero-result combination", func(t *testing.T) {
		var calls atomic.Int64
		client := newMockClient(t, func(req *http.Request) (*http.Response, error) {
			calls.Add(1)
			return jsonResponse(http.StatusOK, map[string]string{"url": "https://i.waifu.pics/a.png"}), nil
		})
		provider := NewWaifuPics(client, logger.NewTestLogger())

		results, err := provider.Fetch(context.Background(), FetchRequest{
			Theme:  models.ThemeFemboy,
			Rating: models.UserRatingSafe,
			Count:  5,
		})
		require.NoError(t, err)
		assert.Empty(t, results)
		assert.Zero(t, calls.Load())
	})

	t.Run("explicit femboy uses the nsfw trap endpoint", func(t *testing.T) {
		client := newMockClient(t, func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "/nsfw/trap", req.URL.Path)
			return jsonResponse(http.StatusOK, map[string]string{"url": "https://i.waifu.pics/b.png"}), nil
		})
		provider := NewWaifuPics(client, logger.NewTestLogger())

		results, err := provider.Fetch(context.Background(), FetchRequest{
			Theme:  models.ThemeFemboy,
			Rating: models.UserRatingExplicit,
			Count:  1,
		})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, models.RatingExplicit, results[0].Rating)
	})

	t.Run("failed items are skipped, not fatal", func(t *testing.T) {
		var calls atomic.Int64
		client := newMockClient(t, func(req *http.Request) (*http.Response, error) {
			if calls.Add(1) == 1 {
				return rawResponse(http.StatusInternalServerError, "", nil), nil
			}
			return jsonResponse(http.StatusOK, map[string]string{"url": "https://i.waifu.pics/c.png"}), nil
		})
		provider := NewWaifuPics(client, logger.NewTestLogger())

		results, err := provider.Fetch(context.Background(), FetchRequest{
			Theme:  models.ThemeCatgirl,
			Rating: models.UserRatingSafe,
			Count:  3,
		})
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})
}

func TestNekosAPI(t *testing.T) {
	t.Run("passes rating filter and parses items", func(t *testing.T) {
		client := newMockClient(t, func(req *http.Request) (*http.Response, error) {
			query := req.URL.Query()
			assert.Equal(t, "catgirl", query.Get("tags"))
			assert.Equal(t, "2", query.Get("limit"))
			assert.Equal(t, "suggestive", query.Get("rating"))
			return jsonResponse(http.StatusOK, map[string]interface{}{
				"value": []map[string]interface{}{
					{"url": "https://cdn.nekosapi.com/1.png", "rating": "suggestive", "tags": []string{"catgirl"}},
					{"url": "", "rating": "safe"},
					{"url": "https://cdn.nekosapi.com/2.png", "rating": "weird"},
				},
			}), nil
		})
		provider := NewNekosAPI(client, logger.NewTestLogger())

		results, err := provider.Fetch(context.Background(), FetchRequest{
			Theme:  models.ThemeCatgirl,
			Rating: models.UserRatingSuggestive,
			Count:  2,
		})
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, models.RatingSuggestive, results[0].Rating)
		assert.Equal(t, models.RatingUnknown, results[1].Rating)
	})

	t.Run("any omits the rating param", func(t *testing.T) {
		client := newMockClient(t, func(req *http.Request) (*http.Response, error) {
			assert.False(t, req.URL.Query().Has("rating"))
			return jsonResponse(http.StatusOK, map[string]interface{}{"value": []interface{}{}}), nil
		})
		provider := NewNekosAPI(client, logger.NewTestLogger())

		_, err := provider.Fetch(context.Background(), FetchRequest{
			Theme:  models.ThemeCatgirl,
			Rating: models.UserRatingAny,
			Count:  1,
		})
		require.NoError(t, err)
	})

	t.Run("network failure surfaces as error", func(t *testing.T) {
		client := newMockClient(t, func(req *http.Request) (*http.Response, error) {
			return rawResponse(http.StatusServiceUnavailable, "", nil), nil
		})
		provider := NewNekosAPI(client, logger.NewTestLogger())

		_, err := provider.Fetch(context.Background(), FetchRequest{
			Theme:  models.ThemeCatgirl,
			Rating: models.UserRatingAny,
			Count:  1,
		})
		assert.Error(t, err)
	})
}

func TestNekosBest(t *testing.T) {
	client := newMockClient(t, func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "/api/v2/kitsune", req.URL.Path)
		assert.Equal(t, "3", req.URL.Query().Get("amount"))
		return jsonResponse(http.StatusOK, map[string]interface{}{
			"results": []map[string]string{
				{"url": "https://nekos.best/a.png"},
				{"url": "https://nekos.best/b.png"},
			},
		}), nil
	})
	provider := NewNekosBest(client, logger.NewTestLogger())

	results, err := provider.Fetch(context.Background(), FetchRequest{
		Theme:  models.ThemeKitsune,
		Rating: models.UserRatingAny,
		Count:  3,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, result := range results {
		assert.Equal(t, models.RatingSafe, result.Rating)
		assert.Equal(t, models.ThemeKitsune, result.Theme)
	}
}

func TestNekosLifeKitsuneEndpoint(t *testing.T) {
	client := newMockClient(t, func(req *http.Request) (*http.Response, error) {
		assert.True(t, strings.HasSuffix(req.URL.Path, "/fox_girl"))
		return jsonResponse(http.StatusOK, map[string]string{"url": "https://cdn.nekos.life/f.png"}), nil
	})
	provider := NewNekosLife(client, logger.NewTestLogger())

	results, err := provider.Fetch(context.Background(), FetchRequest{
		Theme:  models.ThemeKitsune,
		Rating: models.UserRatingSafe,
		Count:  2,
	})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestNekobot(t *testing.T) {
	t.Run("success flag false skips the item", func(t *testing.T) {
		var calls atomic.Int64
		client := newMockClient(t, func(req *http.Request) (*http.Response, error) {
			if calls.Add(1) == 1 {
				return jsonResponse(http.StatusOK, map[string]interface{}{"success": false, "message": "nope"}), nil
			}
			return jsonResponse(http.StatusOK, map[string]interface{}{"success": true, "message": "https://nekobot.xyz/i.png"}), nil
		})
		provider := NewNekobot(client, logger.NewTestLogger())

		results, err := provider.Fetch(context.Background(), FetchRequest{
			Theme:  models.ThemeNeko,
			Rating: models.UserRatingAny,
			Count:  2,
		})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "https://nekobot.xyz/i.png", results[0].URL)
	})
}

func TestE621(t *testing.T) {
	payload := map[string]interface{}{
		"posts": []map[string]interface{}{
			{
				"file":   map[string]string{"url": "https://static.e621.net/1.png"},
				"rating": "q",
				"tags":   map[string][]string{"general": {"femboy", "solo"}},
			},
			{
				"file":   map[string]string{"url": ""},
				"rating": "s",
			},
		},
	}

	t.Run("maps booru ratings and sends user agent", func(t *testing.T) {
		client := newMockClient(t, func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "tester/1.0", req.Header.Get("User-Agent"))
			query := req.URL.Query()
			assert.Equal(t, "femboy rating:q", query.Get("tags"))
			assert.Equal(t, "2", query.Get("limit"))
			assert.False(t, query.Has("page"))
			return jsonResponse(http.StatusOK, payload), nil
		})
		provider := NewE621(client, "tester/1.0", logger.NewTestLogger())

		results, err := provider.Fetch(context.Background(), FetchRequest{
			Theme:  models.ThemeFemboy,
			Rating: models.UserRatingBorderline,
			Count:  2,
		})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, models.RatingSuggestive, results[0].Rating)
		assert.Contains(t, results[0].Tags, "femboy")
	})

	t.Run("randomize retries without page when the random page is empty", func(t *testing.T) {
		var calls atomic.Int64
		client := newMockClient(t, func(req *http.Request) (*http.Response, error) {
			if calls.Add(1) == 1 {
				assert.True(t, req.URL.Query().Has("page"))
				return jsonResponse(http.StatusOK, map[string]interface{}{"posts": []interface{}{}}), nil
			}
			assert.False(t, req.URL.Query().Has("page"))
			return jsonResponse(http.StatusOK, payload), nil
		})
		provider := NewE621(client, "tester/1.0", logger.NewTestLogger())

		results, err := provider.Fetch(context.Background(), FetchRequest{
			Theme:     models.ThemeFemboy,
			Rating:    models.UserRatingAny,
			Count:     2,
			Randomize: true,
		})
		require.NoError(t, err)
		assert.Len(t, results, 1)
		assert.EqualValues(t, 2, calls.Load())
	})

	t.Run("truncates over-returns to count", func(t *testing.T) {
		big := map[string]interface{}{"posts": []map[string]interface{}{}}
		posts := big["posts"].([]map[string]interface{})
		for i := 0; i < 5; i++ {
			posts = append(posts, map[string]interface{}{
				"file":   map[string]string{"url": "https://static.e621.net/" + string(rune('a'+i)) + ".png"},
				"rating": "e",
			})
		}
		big["posts"] = posts

		client := newMockClient(t, func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, big), nil
		})
		provider := NewE621(client, "", logger.NewTestLogger())

		results, err := provider.Fetch(context.Background(), FetchRequest{
			Theme:  models.ThemeFemboy,
			Rating: models.UserRatingExplicit,
			Count:  2,
		})
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})
}

func TestRule34(t *testing.T) {
	t.Run("missing credentials yields zero results", func(t *testing.T) {
		var calls atomic.Int64
		client := newMockClient(t, func(req *http.Request) (*http.Response, error) {
			calls.Add(1)
			return jsonResponse(http.StatusOK, []interface{}{}), nil
		})
		provider := NewRule34(client, "", "", logger.NewTestLogger())

		assert.Error(t, provider.CheckCredentials())
		results, err := provider.Fetch(context.Background(), FetchRequest{
			Theme:  models.ThemeFemboy,
			Rating: models.UserRatingAny,
			Count:  3,
		})
		require.NoError(t, err)
		assert.Empty(t, results)
		assert.Zero(t, calls.Load())
	})

	t.Run("bare list payload with protocol-relative URLs", func(t *testing.T) {
		client := newMockClient(t, func(req *http.Request) (*http.Response, error) {
			query := req.URL.Query()
			assert.Equal(t, "dapi", query.Get("page"))
			assert.Equal(t, "42", query.Get("user_id"))
			assert.Equal(t, "key", query.Get("api_key"))
			assert.Equal(t, "femboy rating:safe", query.Get("tags"))
			return jsonResponse(http.StatusOK, []map[string]interface{}{
				{"file_url": "//img.rule34.xxx/1.png", "rating": "safe", "tags": "femboy solo"},
			}), nil
		})
		provider := NewRule34(client, "42", "key", logger.NewTestLogger())

		results, err := provider.Fetch(context.Background(), FetchRequest{
			Theme:  models.ThemeFemboy,
			Rating: models.UserRatingSafe,
			Count:  1,
		})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "https://img.rule34.xxx/1.png", results[0].URL)
		assert.Equal(t, models.RatingSafe, results[0].Rating)
	})

	t.Run("wrapped single post payload", func(t *testing.T) {
		client := newMockClient(t, func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, map[string]interface{}{
				"post": map[string]interface{}{
					"sample_url": "https://img.rule34.xxx/2.png",
					"rating":     "questionable",
				},
			}), nil
		})
		provider := NewRule34(client, "42", "key", logger.NewTestLogger())

		results, err := provider.Fetch(context.Background(), FetchRequest{
			Theme:  models.ThemeFemboy,
			Rating: models.UserRatingAny,
			Count:  1,
		})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, models.RatingSuggestive, results[0].Rating)
	})
}

func TestParseRule34Posts(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		posts, err := parseRule34Posts([]byte(`[{"file_url":"https://x/1.png"}]`))
		require.NoError(t, err)
		assert.Len(t, posts, 1)
	})
	t.Run("wrapped list", func(t *testing.T) {
		posts, err := parseRule34Posts([]byte(`{"post":[{"file_url":"https://x/1.png"},{"file_url":"https://x/2.png"}]}`))
		require.NoError(t, err)
		assert.Len(t, posts, 2)
	})
	t.Run("wrapped single", func(t *testing.T) {
		posts, err := parseRule34Posts([]byte(`{"post":{"file_url":"https://x/1.png"}}`))
		require.NoError(t, err)
		assert.Len(t, posts, 1)
	})
	t.Run("empty object", func(t *testing.T) {
		posts, err := parseRule34Posts([]byte(`{}`))
		require.NoError(t, err)
		assert.Empty(t, posts)
	})
	t.Run("garbage", func(t *testing.T) {
		_, err := parseRule34Posts([]byte(`"nope"`))
		assert.Error(t, err)
	})
}
