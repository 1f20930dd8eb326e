package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// maxResponseBytes caps how much of an upstream response is read.
const maxResponseBytes = 1 << 20

// Config holds configuration for the classifier clients.
type Config struct {
	BaseURL string // e.g. "https://commentanalyzer.googleapis.com"
	APIKey  string
	Timeout time.Duration
}

// DefaultTimeout bounds every upstream call when Config.Timeout is unset.
const DefaultTimeout = 5 * time.Second

type client struct {
	config     Config
	httpClient *http.Client
}

func newClient(config Config) client {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	return client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// postJSON sends body to path and decodes a 2xx response into out.
func (c *client) postJSON(ctx context.Context, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := c.config.BaseURL + path + "?key=" + url.QueryEscape(c.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return transportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{
			Kind:       KindRejected,
			StatusCode: resp.StatusCode,
			Err:        errors.New(string(bytes.TrimSpace(respBody))),
		}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return malformed("failed to parse response: %w", err)
	}
	return nil
}
