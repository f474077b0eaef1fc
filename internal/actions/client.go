package actions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Client posts action payloads to the downstream executor service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client from the given config.
func NewClient(config *Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		http: &http.Client{
			Timeout: config.TimeoutDuration(),
		},
	}
}

// Post sends body as JSON to path and decodes the JSON response. Any non-2xx
// status is an error.
func (c *Client) Post(ctx context.Context, path string, body any) (map[string]any, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("%s %s: unexpected status %d", http.MethodPost, path, res.StatusCode)
	}

	var result map[string]any
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return result, nil
}
