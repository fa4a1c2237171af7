package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"boxart/pkg/errors"
	"boxart/pkg/logger"
)

// Client fetches image bytes over HTTP
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	logger     logger.Logger
}

// NewClient creates a fetch client. The timeout bounds the whole request,
// headers and body included; a stalled image server can never hang a run.
func NewClient(timeout time.Duration, userAgent string, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: map[string]string{
			"User-Agent":      userAgent,
			"Accept":          "image/avif,image/webp,image/apng,image/*,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.9",
		},
		logger: log,
	}
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// Fetch downloads the resource at the given URL and returns its bytes and
// the response Content-Type. Network errors, timeouts and non-2xx statuses
// all come back as fetch errors; none of them are fatal to a run.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", errors.Newf(errors.ErrorTypeFetch, "invalid URL: %v", err)
	}

	for key, value := range c.headers {
		if value != "" {
			req.Header.Set(key, value)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"url":      url,
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, "", errors.Newf(errors.ErrorTypeFetch, "network error: %v", err)
	}
	defer resp.Body.Close()

	logger.LogRequest(req.Method, url, resp.StatusCode, duration)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", &errors.Error{
			Type:    errors.ErrorTypeFetch,
			Message: fmt.Sprintf("unexpected status %s", resp.Status),
			Code:    resp.StatusCode,
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", errors.Newf(errors.ErrorTypeFetch, "failed to read body: %v", err)
	}

	return data, resp.Header.Get("Content-Type"), nil
}
