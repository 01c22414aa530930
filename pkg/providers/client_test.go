package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeadSignalFound/catgirl-CLI/pkg/logger"
)

// mockRoundTripper intercepts HTTP requests so adapter tests never touch
// the network.
type mockRoundTripper struct {
	handler func(req *http.Request) (*http.Response, error)
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.handler(req)
}

func newMockClient(t *testing.T, handler func(req *http.Request) (*http.Response, error)) *Client {
	t.Helper()
	client := NewClient(10*time.Second, "test-agent/1.0", logger.NewTestLogger())
	client.SetHTTPClient(&http.Client{Transport: &mockRoundTripper{handler: handler}})
	return client
}

func jsonResponse(status int, body interface{}) *http.Response {
	data, _ := json.Marshal(body)
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(data)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func rawResponse(status int, contentType string, body []byte) *http.Response {
	header := make(http.Header)
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(body)),
		Header:     header,
	}
}

func TestGetJSON(t *testing.T) {
	t.Run("decodes payload and sends headers", func(t *testing.T) {
		var gotAgent, gotExtra, gotQuery string
		client := newMockClient(t, func(req *http.Request) (*http.Response, error) {
			gotAgent = req.Header.Get("User-Agent")
			gotExtra = req.Header.Get("X-Extra")
			gotQuery = req.URL.Query().Get("limit")
			return jsonResponse(http.StatusOK, map[string]string{"url": "https://cdn.example/a.png"}), nil
		})

		params := url.Values{}
		params.Set("limit", "5")
		var target struct {
			URL string `json:"url"`
		}
		err := client.GetJSON(context.Background(), "https://api.example/images", params,
			map[string]string{"X-Extra": "yes"}, &target)

		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example/a.png", target.URL)
		assert.Equal(t, "test-agent/1.0", gotAgent)
		assert.Equal(t, "yes", gotExtra)
		assert.Equal(t, "5", gotQuery)
	})

	t.Run("server error", func(t *testing.T) {
		client := newMockClient(t, func(req *http.Request) (*http.Response, error) {
			return rawResponse(http.StatusBadGateway, "", nil), nil
		})

		var target map[string]interface{}
		err := client.GetJSON(context.Background(), "https://api.example/images", nil, nil, &target)

		var apiErr *Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, ErrorTypeServerError, apiErr.Type)
		assert.Equal(t, http.StatusBadGateway, apiErr.Code)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		client := newMockClient(t, func(req *http.Request) (*http.Response, error) {
			return rawResponse(http.StatusOK, "application/json", []byte("<html>nope</html>")), nil
		})

		var target map[string]interface{}
		err := client.GetJSON(context.Background(), "https://api.example/images", nil, nil, &target)

		var apiErr *Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, ErrorTypeParsing, apiErr.Type)
	})
}

func TestDownload(t *testing.T) {
	t.Run("returns image bytes and content type", func(t *testing.T) {
		client := newMockClient(t, func(req *http.Request) (*http.Response, error) {
			return rawResponse(http.StatusOK, "image/png", []byte("png-bytes")), nil
		})

		data, contentType, err := client.Download(context.Background(), "https://cdn.example/a.png")
		require.NoError(t, err)
		assert.Equal(t, []byte("png-bytes"), data)
		assert.Equal(t, "image/png", contentType)
	})

	t.Run("rejects non-image content", func(t *testing.T) {
		client := newMockClient(t, func(req *http.Request) (*http.Response, error) {
			return rawResponse(http.StatusOK, "text/html", []byte("<html></html>")), nil
		})

		_, _, err := client.Download(context.Background(), "https://cdn.example/a")
		var apiErr *Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, ErrorTypeContentType, apiErr.Type)
	})
}
