package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/DeadSignalFound/catgirl-CLI/pkg/logger"
)

const maxDownloadSize = 64 << 20 // 64 MiB

// Client is the HTTP client shared by all provider adapters and the
// download orchestrator.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	logger     logger.Logger
}

// NewClient creates a Client with the given timeout and default User-Agent.
func NewClient(timeout time.Duration, userAgent string, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		headers: map[string]string{
			"User-Agent": userAgent,
			"Accept":     "application/json, image/*;q=0.9, */*;q=0.8",
		},
		logger: log,
	}
}

// SetHeader sets a default header sent on every request.
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// SetHTTPClient swaps the underlying http.Client, mostly for tests.
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

func (c *Client) do(ctx context.Context, rawURL string, params url.Values, headers map[string]string) (*http.Response, error) {
	if len(params) > 0 {
		separator := "?"
		if strings.Contains(rawURL, "?") {
			separator = "&"
		}
		rawURL += separator + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{Type: ErrorTypeUnknown, Message: fmt.Sprintf("failed to create request: %v", err)}
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).WithField("url", rawURL).Debug("HTTP request failed")
		return nil, &Error{Type: ErrorTypeNetwork, Message: fmt.Sprintf("network error: %v", err)}
	}

	c.logger.WithFields(map[string]interface{}{
		"url":      rawURL,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("HTTP request completed")

	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return &Error{Type: ErrorTypeNotFound, Message: "resource not found", Code: resp.StatusCode}
	case resp.StatusCode >= 500:
		return &Error{Type: ErrorTypeServerError, Message: fmt.Sprintf("server returned status %d", resp.StatusCode), Code: resp.StatusCode}
	default:
		return &Error{Type: ErrorTypeUnknown, Message: fmt.Sprintf("unexpected status %d", resp.StatusCode), Code: resp.StatusCode}
	}
}

// GetJSON performs a GET request and decodes the JSON response into target.
// Extra per-request headers override the client defaults.
func (c *Client) GetJSON(ctx context.Context, rawURL string, params url.Values, headers map[string]string, target interface{}) error {
	resp, err := c.do(ctx, rawURL, params, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize))
	if err != nil {
		return &Error{Type: ErrorTypeNetwork, Message: fmt.Sprintf("failed to read response body: %v", err), Code: resp.StatusCode}
	}
	if err := json.Unmarshal(body, target); err != nil {
		preview := string(body)
		if len(preview) > 120 {
			preview = preview[:120]
		}
		c.logger.WithField("body_preview", preview).Debug("JSON decode failed")
		return &Error{Type: ErrorTypeParsing, Message: fmt.Sprintf("failed to decode JSON: %v", err), Code: resp.StatusCode}
	}
	return nil
}

// Download fetches binary image content, rejecting non-image content types.
// It returns the body and the reported content type.
func (c *Client) Download(ctx context.Context, rawURL string) ([]byte, string, error) {
	resp, err := c.do(ctx, rawURL, nil, nil)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return nil, "", &Error{
			Type:    ErrorTypeContentType,
			Message: fmt.Sprintf("non-image content type: %s", orMissing(contentType)),
			Code:    resp.StatusCode,
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize))
	if err != nil {
		return nil, "", &Error{Type: ErrorTypeNetwork, Message: fmt.Sprintf("failed to read image data: %v", err), Code: resp.StatusCode}
	}
	return data, contentType, nil
}

func orMissing(value string) string {
	if value == "" {
		return "missing"
	}
	return value
}
