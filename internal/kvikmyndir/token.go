package kvikmyndir

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// tokenFallbackTTL is used when the authenticate response carries no usable
// expiry. Tokens upstream last 24 hours; refreshing an hour early keeps a
// stale token from slipping into a request.
const tokenFallbackTTL = 23 * time.Hour

type cachedToken struct {
	value   string
	expires time.Time
}

// tokenSource caches the bearer token behind an atomic pointer. Concurrent
// callers that observe an expired token may each trigger a refresh; the
// duplicate exchange is harmless and cheaper than serializing every request
// through a lock.
type tokenSource struct {
	client  *Client
	current atomic.Pointer[cachedToken]
	now     func() time.Time
}

func newTokenSource(c *Client) *tokenSource {
	return &tokenSource{client: c, now: time.Now}
}

// Token returns a valid bearer token, exchanging credentials when the
// cached one is missing or expired.
func (ts *tokenSource) Token(ctx context.Context) (string, error) {
	if cached := ts.current.Load(); cached != nil && ts.now().Before(cached.expires) {
		return cached.value, nil
	}

	token, ttl, err := ts.exchange(ctx)
	if err != nil {
		return "", err
	}
	ts.current.Store(&cachedToken{value: token, expires: ts.now().Add(ttl)})
	ts.client.logger.Printf("kvikmyndir: refreshed access token, valid for %s", ttl)
	return token, nil
}

type authResponse struct {
	Token     string          `json:"token"`
	ExpiresIn json.RawMessage `json:"expiresIn"`
}

func (ts *tokenSource) exchange(ctx context.Context) (string, time.Duration, error) {
	endpoint := ts.client.baseURL.String() + "/authenticate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return "", 0, err
	}
	req.SetBasicAuth(ts.client.creds.Username, ts.client.creds.Password)
	req.Header.Set("Accept", "application/json")

	resp, err := ts.client.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("kvikmyndir: authenticate: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, fmt.Errorf("kvikmyndir: read authenticate response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("kvikmyndir: authenticate returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var auth authResponse
	if err := json.Unmarshal(body, &auth); err != nil {
		return "", 0, fmt.Errorf("kvikmyndir: decode authenticate response: %w", err)
	}
	if auth.Token == "" {
		return "", 0, fmt.Errorf("kvikmyndir: authenticate response carried no token")
	}
	return auth.Token, expiresTTL(auth.ExpiresIn), nil
}

// expiresTTL reads the expiresIn field, which arrives as a number of
// seconds on some deployments and a numeric string on others.
func expiresTTL(raw json.RawMessage) time.Duration {
	if len(raw) == 0 {
		return tokenFallbackTTL
	}
	var seconds float64
	if err := json.Unmarshal(raw, &seconds); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return tokenFallbackTTL
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return tokenFallbackTTL
		}
		seconds = parsed
	}
	if seconds <= 0 {
		return tokenFallbackTTL
	}
	return time.Duration(seconds * float64(time.Second))
}
