// Package supabase implements the remote gateway over a hosted Supabase
// project: PostgREST for tables and GoTrue for authentication.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"automate-service/internal/gateway"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// PlaceholderProjectID marks an unedited project URL from the sample config.
const PlaceholderProjectID = "YOUR_PROJECT_ID"

// Config configures the Supabase client.
type Config struct {
	ProjectURL string
	AnonKey    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Configured reports whether cfg points at a real project.
func (cfg Config) Configured() bool {
	return cfg.ProjectURL != "" && cfg.AnonKey != "" && !strings.Contains(cfg.ProjectURL, PlaceholderProjectID)
}

// Client performs Supabase REST calls. It satisfies gateway.Gateway.
type Client struct {
	cfg     Config
	restURL string
	authURL string
	http    *http.Client
	logger  *zap.Logger
}

var _ gateway.Gateway = (*Client)(nil)

// New creates a Supabase client.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.ProjectURL == "" {
		return nil, fmt.Errorf("project URL is required")
	}
	if cfg.AnonKey == "" {
		return nil, fmt.Errorf("anon key is required")
	}
	base := strings.TrimRight(cfg.ProjectURL, "/")
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid project URL: %w", err)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		cfg:     cfg,
		restURL: base + "/rest/v1",
		authURL: base + "/auth/v1",
		http:    httpClient,
		logger:  logger,
	}, nil
}

// APIError is a non-2xx response from either API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// request performs an HTTP request. The bearer is the session attached to
// ctx when present, otherwise the anon key.
func (c *Client) request(ctx context.Context, method, rawURL string, body interface{}, headers map[string]string) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	bearer := c.cfg.AnonKey
	if s, ok := gateway.SessionFrom(ctx); ok && s.AccessToken != "" {
		bearer = s.AccessToken
	}
	req.Header.Set("apikey", c.cfg.AnonKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, data)}
	}
	return data, nil
}

// errorMessage extracts the human readable message from a PostgREST or
// GoTrue error body.
func errorMessage(status int, body []byte) string {
	if gjson.ValidBytes(body) {
		for _, path := range []string{"msg", "error_description", "message", "error"} {
			if v := gjson.GetBytes(body, path); v.Type == gjson.String && v.String() != "" {
				return v.String()
			}
		}
	}
	return fmt.Sprintf("supabase API error %d: %s", status, strings.TrimSpace(string(body)))
}

func (c *Client) tableURL(table string, query url.Values) string {
	u := c.restURL + "/" + url.PathEscape(table)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// selectRows runs GET /rest/v1/<table> and decodes the result into out.
func (c *Client) selectRows(ctx context.Context, table string, query url.Values, out interface{}) error {
	data, err := c.request(ctx, http.MethodGet, c.tableURL(table, query), nil, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s rows: %w", table, err)
	}
	return nil
}

func (c *Client) insertRow(ctx context.Context, table string, row interface{}) error {
	_, err := c.request(ctx, http.MethodPost, c.tableURL(table, nil), row, map[string]string{
		"Prefer": "return=minimal",
	})
	return err
}

func (c *Client) updateRows(ctx context.Context, table string, query url.Values, patch interface{}) error {
	_, err := c.request(ctx, http.MethodPatch, c.tableURL(table, query), patch, map[string]string{
		"Prefer": "return=minimal",
	})
	return err
}

func (c *Client) deleteRows(ctx context.Context, table string, query url.Values) error {
	_, err := c.request(ctx, http.MethodDelete, c.tableURL(table, query), nil, nil)
	return err
}

func eq(column, value string) url.Values {
	q := url.Values{}
	q.Set(column, "eq."+value)
	return q
}
