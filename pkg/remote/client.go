// Package remote calls the same-origin proxy endpoint that lists GitHub
// repositories, and interprets its status codes.
//
// The proxy answers with a JSON array of repository records on success,
// 429 with an optional X-RateLimit-Reset header (epoch seconds) when the
// upstream quota is exhausted, and other 4xx/5xx statuses with an optional
// {"error": "..."} body. [Client.Fetch] maps these onto
// [ferrors.RateLimitedError] and [ferrors.NetworkError], and keeps a
// [ratelimit.Guard] in step with what it sees.
package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	ferrors "github.com/matzehuels/folio/pkg/errors"
	"github.com/matzehuels/folio/pkg/integrations"
	"github.com/matzehuels/folio/pkg/integrations/github"
	"github.com/matzehuels/folio/pkg/observability"
	"github.com/matzehuels/folio/pkg/ratelimit"
)

// DefaultResetDelay is assumed when a 429 carries no usable reset header.
const DefaultResetDelay = time.Hour

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// Client fetches repository listings from the proxy.
type Client struct {
	baseURL string
	http    *http.Client
	guard   *ratelimit.Guard
	now     func() time.Time
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithClock sets the time source used to default reset times.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a client for the proxy at baseURL (scheme and host, e.g.
// "http://localhost:8080"). A nil guard gets a private one.
func New(baseURL string, guard *ratelimit.Guard, opts ...Option) *Client {
	if guard == nil {
		guard = ratelimit.New(nil)
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    integrations.NewHTTPClient(),
		guard:   guard,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Guard returns the rate-limit guard this client updates.
func (c *Client) Guard() *ratelimit.Guard { return c.guard }

// Fetch issues one GET for q. It does not consult the guard; callers do
// that before deciding to fetch.
func (c *Client) Fetch(ctx context.Context, q Query) ([]github.Repo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+Endpoint+"?"+q.Values().Encode(), nil)
	if err != nil {
		return nil, &ferrors.NetworkError{Cause: err}
	}
	req.Header.Set("Accept", "application/json")

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, &ferrors.NetworkError{Cause: err}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		resetAt := c.resetTime(resp.Header.Get("X-RateLimit-Reset"))
		c.guard.MarkLimited(resetAt)
		return nil, &ferrors.RateLimitedError{ResetAt: resetAt}

	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &ferrors.NetworkError{Status: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	c.guard.Clear()

	var repos []github.Repo
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		return nil, &ferrors.NetworkError{Status: resp.StatusCode, Cause: err}
	}
	if repos == nil {
		repos = []github.Repo{}
	}
	return repos, nil
}

// resetTime parses an epoch-seconds header, falling back to now plus
// DefaultResetDelay.
func (c *Client) resetTime(header string) time.Time {
	secs, err := strconv.ParseInt(strings.TrimSpace(header), 10, 64)
	if err != nil || secs <= 0 {
		return c.now().Add(DefaultResetDelay)
	}
	return time.Unix(secs, 0)
}

// errorMessage extracts {"error": "..."} from a body, or returns "".
func errorMessage(body io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(body, maxErrorBody)).Decode(&payload); err != nil {
		return ""
	}
	return payload.Error
}
