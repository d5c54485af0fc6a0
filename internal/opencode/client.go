// Package opencode talks to a running OpenCode server over its HTTP API.
//
// The client covers the two endpoints opencode-notify needs:
//   - GET /event               - Server-Sent Events stream of bus events
//   - GET /session/{id}/todo   - todo list of a session
package opencode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ariel-frischer/opencode-notify/internal/todo"
)

// DefaultTimeout is the default HTTP request timeout for non-streaming calls.
const DefaultTimeout = 10 * time.Second

// DefaultServerURL is where `opencode serve` listens unless told otherwise.
const DefaultServerURL = "http://127.0.0.1:4096"

// maxResponseSize limits response body reads to prevent memory exhaustion.
const maxResponseSize = 10 * 1024 * 1024 // 10MB

// Error is returned for non-2xx responses.
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("opencode server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("opencode server returned %d: %s", e.StatusCode, e.Body)
}

// Client is the OpenCode HTTP client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	sseClient  *http.Client
}

// New creates a client for the server at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		sseClient: &http.Client{
			// No timeout - SSE connections are long-lived
		},
	}
}

// BaseURL returns the server base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Todos returns the todo list of a session.
func (c *Client) Todos(ctx context.Context, sessionID string) ([]todo.Item, error) {
	var items []todo.Item
	path := "/session/" + url.PathEscape(sessionID) + "/todo"
	if err := c.get(ctx, path, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Ping checks that the server answers at all.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/config", nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", c.baseURL, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{StatusCode: resp.StatusCode}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
