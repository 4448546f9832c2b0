// Package dataclient is a thin client for the hosted data service: a
// PostgREST-style query surface plus a small auth sub-API. All durable
// state lives behind the service; callers hold only request-scoped copies.
package dataclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// Client is a configured handle to the hosted data service.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     zerolog.Logger
	auth    *Auth
}

// APIError is a non-2xx response from the data service.
type APIError struct {
	Status  int
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("data service: %s (status %d)", e.Message, e.Status)
}

// New creates a client for the given project URL and anonymous API key.
func New(baseURL, apiKey string, log zerolog.Logger) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{},
		log:     log,
	}
	c.auth = newAuth(c)
	return c
}

// From starts a query scoped to one table.
func (c *Client) From(table string) *Query {
	return newQuery(c, table)
}

// Auth returns the authentication sub-API.
func (c *Client) Auth() *Auth {
	return c.auth
}

// TestConnection issues a trivial limited select against web_content.
func (c *Client) TestConnection(ctx context.Context) error {
	var rows []map[string]any
	return c.From("web_content").Select("count").Limit(1).Get(ctx, &rows)
}

func (c *Client) do(ctx context.Context, method, url string, headers map[string]string, body, dest any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.bearerToken())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		data, _ := io.ReadAll(resp.Body)
		if err := json.Unmarshal(data, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
			if apiErr.Message == "" {
				apiErr.Message = resp.Status
			}
		}
		return apiErr
	}

	if dest != nil {
		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// bearerToken prefers the signed-in session token over the anon key.
func (c *Client) bearerToken() string {
	if s, ok := c.auth.Session(); ok {
		return s.AccessToken
	}
	return c.apiKey
}
