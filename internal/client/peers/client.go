// Package peers holds the HTTP clients the predictor uses to reach the
// instrument store and the news store. Both default to this process's own
// API, so a single deployment talks to itself over loopback while a split
// deployment only changes two URLs.
package peers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds every peer call; a stuck peer degrades the batch,
// never hangs it.
const DefaultTimeout = 30 * time.Second

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("peer API error (%d): %s", e.Status, e.Body)
}

// envelope mirrors the API's uniform response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *string         `json:"error"`
}

type baseClient struct {
	host       string
	httpClient *http.Client
}

func newBaseClient(httpClient *http.Client, host string) baseClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return baseClient{
		host:       strings.TrimRight(host, "/"),
		httpClient: httpClient,
	}
}

// getJSON performs a GET, unwraps the response envelope and decodes its data
// payload into out.
func (c *baseClient) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	fullURL := c.host + path
	if len(query) > 0 {
		fullURL = fullURL + "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("failed to decode envelope: %w", err)
	}
	if !env.Success {
		msg := env.Message
		if env.Error != nil {
			msg = *env.Error
		}
		return fmt.Errorf("peer reported failure: %s", msg)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode data payload: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Status == http.StatusNotFound
}
