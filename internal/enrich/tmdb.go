// Package enrich fills missing Rotten Tomatoes scores from secondary
// providers after normalization.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultTMDBBaseURL = "https://api.themoviedb.org/3"

// TMDBClient resolves TMDb movie ids to external identifiers and scores.
type TMDBClient interface {
	ExternalIDs(ctx context.Context, tmdbID int) (imdbID string, err error)
	VoteAverage(ctx context.Context, tmdbID int) (float64, error)
}

// HTTPTMDBClient implements TMDBClient against the TMDb v3 API.
type HTTPTMDBClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *log.Logger
}

// NewTMDBClient constructs a TMDb client. baseURL may be empty to use the
// public API.
func NewTMDBClient(baseURL, apiKey string, timeout time.Duration, logger *log.Logger) (*HTTPTMDBClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("tmdb: api key is required")
	}
	if baseURL == "" {
		baseURL = defaultTMDBBaseURL
	}
	if logger == nil {
		logger = log.Default()
	}
	return &HTTPTMDBClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

// ExternalIDs returns the IMDb id registered for a TMDb movie, or an empty
// string when TMDb has none on file.
func (c *HTTPTMDBClient) ExternalIDs(ctx context.Context, tmdbID int) (string, error) {
	var payload struct {
		IMDbID string `json:"imdb_id"`
	}
	path := "/movie/" + strconv.Itoa(tmdbID) + "/external_ids"
	if err := c.getJSON(ctx, path, &payload); err != nil {
		return "", err
	}
	return payload.IMDbID, nil
}

// VoteAverage returns the TMDb audience score on a 0-10 scale.
func (c *HTTPTMDBClient) VoteAverage(ctx context.Context, tmdbID int) (float64, error) {
	var payload struct {
		VoteAverage float64 `json:"vote_average"`
	}
	path := "/movie/" + strconv.Itoa(tmdbID)
	if err := c.getJSON(ctx, path, &payload); err != nil {
		return 0, err
	}
	return payload.VoteAverage, nil
}

func (c *HTTPTMDBClient) getJSON(ctx context.Context, path string, out any) error {
	endpoint := c.baseURL + path + "?" + url.Values{"api_key": {c.apiKey}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb: %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("tmdb: read %s response: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tmdb: %s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("tmdb: decode %s response: %w", path, err)
	}
	return nil
}
