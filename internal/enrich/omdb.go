package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dr-cinema/dr-cinema/internal/normalize"
)

const defaultOMDBBaseURL = "https://www.omdbapi.com"

// OMDBClient looks up Rotten Tomatoes scores by IMDb id.
type OMDBClient interface {
	RottenTomatoesScore(ctx context.Context, imdbID string) (score int, found bool, err error)
}

// HTTPOMDBClient implements OMDBClient against the OMDb API.
type HTTPOMDBClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *log.Logger
}

// NewOMDBClient constructs an OMDb client. baseURL may be empty to use the
// public API.
func NewOMDBClient(baseURL, apiKey string, timeout time.Duration, logger *log.Logger) (*HTTPOMDBClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("omdb: api key is required")
	}
	if baseURL == "" {
		baseURL = defaultOMDBBaseURL
	}
	if logger == nil {
		logger = log.Default()
	}
	return &HTTPOMDBClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

type omdbResponse struct {
	Response    string `json:"Response"`
	Error       string `json:"Error"`
	TomatoMeter string `json:"tomatoMeter"`
	Ratings     []struct {
		Source string `json:"Source"`
		Value  string `json:"Value"`
	} `json:"Ratings"`
}

// RottenTomatoesScore returns the critic score for an IMDb id. found is
// false when OMDb knows the title but carries no Rotten Tomatoes entry.
func (c *HTTPOMDBClient) RottenTomatoesScore(ctx context.Context, imdbID string) (int, bool, error) {
	query := url.Values{"i": {imdbID}, "apikey": {c.apiKey}}
	endpoint := c.baseURL + "/?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, false, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, false, fmt.Errorf("omdb: lookup %s: %w", imdbID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, false, fmt.Errorf("omdb: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, false, fmt.Errorf("omdb: lookup %s returned %d", imdbID, resp.StatusCode)
	}

	var payload omdbResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, false, fmt.Errorf("omdb: decode response: %w", err)
	}
	if !strings.EqualFold(payload.Response, "True") {
		return 0, false, fmt.Errorf("omdb: lookup %s failed: %s", imdbID, payload.Error)
	}

	for _, rating := range payload.Ratings {
		if !strings.EqualFold(rating.Source, "Rotten Tomatoes") {
			continue
		}
		if score, ok := normalize.ParsePercent(rating.Value); ok && score > 0 {
			return score, true, nil
		}
	}
	if score, ok := normalize.ParsePercent(payload.TomatoMeter); ok && score > 0 {
		return score, true, nil
	}
	return 0, false, nil
}
