// Package kvikmyndir talks to the primary listings provider. Responses are
// returned as raw records; all shape interpretation belongs to the
// normalize package.
package kvikmyndir

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dr-cinema/dr-cinema/internal/normalize"
)

// Credentials identifies the API consumer for the token exchange.
type Credentials struct {
	Username string
	Password string
}

// Client fetches raw listing collections over HTTP with bearer-token
// authentication.
type Client struct {
	baseURL *url.URL
	creds   Credentials
	client  *http.Client
	logger  *log.Logger
	tokens  *tokenSource
}

// NewClient constructs an HTTP-backed listings client.
func NewClient(baseURL string, creds Credentials, timeout time.Duration, logger *log.Logger) (*Client, error) {
	if logger == nil {
		logger = log.Default()
	}
	if creds.Username == "" || creds.Password == "" {
		return nil, fmt.Errorf("kvikmyndir: credentials are required")
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse listings url: %w", err)
	}

	httpClient := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   timeout,
			ResponseHeaderTimeout: timeout,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}

	c := &Client{
		baseURL: parsed,
		creds:   creds,
		client:  httpClient,
		logger:  logger,
	}
	c.tokens = newTokenSource(c)
	return c, nil
}

// Movies fetches raw movie records, passing the query through to the
// upstream as-is.
func (c *Client) Movies(ctx context.Context, query url.Values) ([]normalize.Record, error) {
	body, err := c.get(ctx, "/movies", query)
	if err != nil {
		return nil, err
	}
	return decodeRecords(body, "movies", "results")
}

// Upcoming fetches raw upcoming-movie records.
func (c *Client) Upcoming(ctx context.Context) ([]normalize.Record, error) {
	body, err := c.get(ctx, "/upcoming", nil)
	if err != nil {
		return nil, err
	}
	return decodeRecords(body, "movies", "results")
}

// Theaters fetches raw cinema records. The payload is a bare array on some
// deployments and a {theaters: [...]} wrapper on others.
func (c *Client) Theaters(ctx context.Context) ([]normalize.Record, error) {
	body, err := c.get(ctx, "/theaters", nil)
	if err != nil {
		return nil, err
	}
	return decodeRecords(body, "theaters")
}

// MovieShowtimes fetches raw showtime records for one movie, optionally
// scoped to a cinema upstream-side.
func (c *Client) MovieShowtimes(ctx context.Context, movieID, cinemaID string) ([]normalize.Record, error) {
	query := url.Values{}
	if cinemaID != "" {
		query.Set("cinema_id", cinemaID)
	}
	body, err := c.get(ctx, "/movies/"+url.PathEscape(movieID)+"/showtimes", query)
	if err != nil {
		return nil, err
	}
	return decodeRecords(body, "showtimes", "schedule")
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	rel := &url.URL{Path: path}
	if len(query) > 0 {
		rel.RawQuery = query.Encode()
	}
	endpoint := c.baseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-access-token", token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kvikmyndir: %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("kvikmyndir: read %s response: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kvikmyndir: %s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

// decodeRecords accepts a bare array or an object wrapping the array under
// one of the given keys (including one level of {data: {...}} nesting).
func decodeRecords(body []byte, wrapperKeys ...string) ([]normalize.Record, error) {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("kvikmyndir: decode response: %w", err)
	}
	if records, ok := recordsFrom(payload); ok {
		return records, nil
	}
	if obj, ok := payload.(map[string]any); ok {
		for _, key := range wrapperKeys {
			if records, found := recordsFrom(obj[key]); found {
				return records, nil
			}
		}
		if data, ok := obj["data"].(map[string]any); ok {
			for _, key := range wrapperKeys {
				if records, found := recordsFrom(data[key]); found {
					return records, nil
				}
			}
		}
	}
	return nil, fmt.Errorf("kvikmyndir: response is neither an array nor a known wrapper")
}

func recordsFrom(v any) ([]normalize.Record, bool) {
	arr, ok := v.([]any)
	if !ok {
		return nil, false
	}
	records := make([]normalize.Record, 0, len(arr))
	for _, elem := range arr {
		if rec, ok := elem.(map[string]any); ok {
			records = append(records, rec)
		}
	}
	return records, true
}
