// Package fetcher coordinates repository fetches for display.
//
// A [Client] owns the state every consumer shares: the record store, the
// in-flight request group, and the rate-limit guard. A program normally
// holds one client for its lifetime; tests build one per case.
//
// Each fetch attempt runs the same sequence:
//
//  1. If the guard reports an active rate limit, skip the attempt.
//  2. Derive the request signature from username, sort and direction.
//  3. If the store holds a fresh entry for that signature and username,
//     transform it and return without touching the network.
//  4. Otherwise join or start the network call for the signature. The call
//     that actually reaches the network writes its records to the store.
//  5. Transform the records with the caller's filter.
//
// Filters are applied after the store, so consumers that differ only in
// MinStars or ExcludeForks share one cached listing.
//
// [Client.Projects] runs the sequence once. [Client.NewLoader] wraps it in
// observable state with debouncing and refetch for long-lived consumers.
package fetcher

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/folio/pkg/cache"
	ferrors "github.com/matzehuels/folio/pkg/errors"
	"github.com/matzehuels/folio/pkg/inflight"
	"github.com/matzehuels/folio/pkg/integrations/github"
	"github.com/matzehuels/folio/pkg/observability"
	"github.com/matzehuels/folio/pkg/projects"
	"github.com/matzehuels/folio/pkg/ratelimit"
	"github.com/matzehuels/folio/pkg/remote"
)

// DefaultDebounce is how long a [Loader] waits after a trigger before
// fetching, so rapid parameter changes collapse into one request.
const DefaultDebounce = 500 * time.Millisecond

// Options selects and filters a listing.
type Options struct {
	Sort         string // updated (default), created, pushed, full_name
	Direction    string // desc (default), asc
	MinStars     int
	ExcludeForks bool
	ForceFresh   bool // skip the store and always go to the network
}

// Query returns the request half of the options for username.
func (o Options) Query(username string) remote.Query {
	return remote.Query{Username: username, Sort: o.Sort, Direction: o.Direction}.WithDefaults()
}

// Filter returns the view half of the options.
func (o Options) Filter() projects.Filter {
	return projects.Filter{MinStars: o.MinStars, ExcludeForks: o.ExcludeForks}
}

// Client holds the state shared by every fetch made through it.
type Client struct {
	remote   *remote.Client
	guard    *ratelimit.Guard
	store    *cache.Store[[]github.Repo]
	group    inflight.Group[[]github.Repo]
	logger   *log.Logger
	now      func() time.Time
	debounce time.Duration
}

type config struct {
	logger     *log.Logger
	now        func() time.Time
	debounce   time.Duration
	expiration time.Duration
	http       *http.Client
}

// Option configures a [Client].
type Option func(*config)

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithClock sets the time source for store expiry and rate-limit resets.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

// WithDebounce sets the loader debounce delay. Zero or negative fetches
// immediately on the next scheduler tick.
func WithDebounce(d time.Duration) Option {
	return func(c *config) { c.debounce = d }
}

// WithExpiration sets how long stored listings stay fresh.
// The default is [cache.DefaultExpiration].
func WithExpiration(d time.Duration) Option {
	return func(c *config) { c.expiration = d }
}

// WithHTTPClient sets the HTTP client used to reach the proxy.
func WithHTTPClient(h *http.Client) Option {
	return func(c *config) { c.http = h }
}

// New creates a client for the proxy at baseURL.
func New(baseURL string, opts ...Option) *Client {
	cfg := config{
		now:      time.Now,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.Default()
	}
	if cfg.now == nil {
		cfg.now = time.Now
	}

	guard := ratelimit.New(cfg.now)
	return &Client{
		remote:   remote.New(baseURL, guard, remote.WithHTTPClient(cfg.http), remote.WithClock(cfg.now)),
		guard:    guard,
		store:    cache.NewStore[[]github.Repo](cfg.expiration, cfg.now),
		logger:   cfg.logger,
		now:      cfg.now,
		debounce: max(cfg.debounce, 0),
	}
}

// Guard returns the shared rate-limit guard.
func (c *Client) Guard() *ratelimit.Guard { return c.guard }

// ClearCache drops every stored listing. Calls in flight still complete
// and store their result.
func (c *Client) ClearCache() {
	c.store.Clear()
	c.logger.Debug("cleared repository cache")
}

// Projects fetches username's projects once. An active rate limit yields a
// [*ferrors.RateLimitedError] without any network call.
func (c *Client) Projects(ctx context.Context, username string, opts Options) ([]projects.Project, error) {
	if err := c.suppressed(ctx); err != nil {
		return nil, err
	}
	q := opts.Query(username)
	if ps, ok := c.lookup(q, opts); ok {
		return ps, nil
	}
	repos, err := c.fetch(ctx, q)
	if err != nil {
		return nil, err
	}
	return projects.Transform(repos, opts.Filter()), nil
}

// suppressed returns a rate-limit error while the guard is active.
func (c *Client) suppressed(ctx context.Context) error {
	if !c.guard.ShouldSuppress() {
		return nil
	}
	resetAt := c.guard.State().ResetAt
	observability.Fetch().OnSuppressed(ctx, resetAt)
	c.logger.Debug("rate limited, skipping fetch", "resets", resetAt.Format(time.Kitchen))
	return &ferrors.RateLimitedError{ResetAt: resetAt}
}

// lookup returns filtered projects from a fresh store entry.
func (c *Client) lookup(q remote.Query, opts Options) ([]projects.Project, bool) {
	if opts.ForceFresh {
		return nil, false
	}
	e, ok := c.store.Lookup(q.Signature(), q.Username)
	if !ok {
		observability.Cache().OnCacheMiss(context.Background(), "repos")
		return nil, false
	}
	observability.Cache().OnCacheHit(context.Background(), "repos")
	c.logger.Debug("using cached repositories", "user", q.Username, "count", len(e.Value))
	return projects.Transform(e.Value, opts.Filter()), true
}

// fetch joins or starts the network call for q. Only the call that reaches
// the network writes the store, so joiners never double-write.
func (c *Client) fetch(ctx context.Context, q remote.Query) ([]github.Repo, error) {
	sig := q.Signature()
	hooks := observability.Fetch()

	repos, joined, err := c.group.Acquire(ctx, sig, func(ctx context.Context) ([]github.Repo, error) {
		hooks.OnFetchStart(ctx, sig)
		start := time.Now()

		repos, err := c.remote.Fetch(ctx, q)
		hooks.OnFetchComplete(ctx, sig, len(repos), time.Since(start), err)
		if err != nil {
			c.logger.Warn("fetch failed", "user", q.Username, "error", err)
			return nil, err
		}

		c.store.Put(sig, repos, q.Username)
		c.logger.Info("fetched repositories", "user", q.Username, "count", len(repos),
			"duration", time.Since(start).Round(time.Millisecond))
		return repos, nil
	})
	if joined {
		hooks.OnJoin(ctx, sig)
		c.logger.Debug("joined in-flight fetch", "signature", sig)
	}
	return repos, err
}
