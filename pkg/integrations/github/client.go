package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/matzehuels/folio/pkg/buildinfo"
	"github.com/matzehuels/folio/pkg/cache"
	ferrors "github.com/matzehuels/folio/pkg/errors"
	"github.com/matzehuels/folio/pkg/integrations"
)

// DefaultBaseURL is the public GitHub REST API.
const DefaultBaseURL = "https://api.github.com"

// Options configures a [Client].
type Options struct {
	Token    string        // personal access token; empty means unauthenticated
	BaseURL  string        // defaults to DefaultBaseURL
	Cache    cache.Cache   // response cache; nil disables caching
	CacheTTL time.Duration // lifetime of cached listings
	Keyer    cache.Keyer   // defaults to cache.NewDefaultKeyer()
	HTTP     *http.Client  // defaults to integrations.NewHTTPClient()
}

// Client lists repositories through the GitHub API.
// It handles HTTP requests with caching, automatic retries, and optional authentication.
type Client struct {
	*integrations.Client
	baseURL string
	keyer   cache.Keyer
}

// NewClient creates a GitHub API client.
func NewClient(opts Options) *Client {
	headers := map[string]string{
		"Accept":     "application/vnd.github.v3+json",
		"User-Agent": buildinfo.UserAgent(),
	}
	if opts.Token != "" {
		headers["Authorization"] = "Bearer " + opts.Token
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Keyer == nil {
		opts.Keyer = cache.NewDefaultKeyer()
	}

	return &Client{
		Client:  integrations.NewClient(opts.Cache, "", opts.CacheTTL, headers).WithHTTPClient(opts.HTTP),
		baseURL: opts.BaseURL,
		keyer:   opts.Keyer,
	}
}

// ListUserRepos returns the first page of a user's public repositories.
// Empty sort and direction select "updated" and "desc". If refresh is true,
// cached data is bypassed.
//
// A missing user yields an error with code [ferrors.ErrCodeUserNotFound];
// an exhausted quota yields [*ferrors.RateLimitedError].
func (c *Client) ListUserRepos(ctx context.Context, username, sort, direction string, refresh bool) ([]Repo, error) {
	if sort == "" {
		sort = SortUpdated
	}
	if direction == "" {
		direction = DirectionDesc
	}

	key := c.keyer.ReposKey(username, cache.ReposKeyOpts{Sort: sort, Direction: direction, PerPage: PerPage})

	var repos []Repo
	err := c.Cached(ctx, key, refresh, &repos, func() error {
		return c.Get(ctx, c.reposURL(username, sort, direction), &repos)
	})
	if err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, ferrors.Wrap(ferrors.ErrCodeUserNotFound, err, "GitHub user '%s' not found", username)
		}
		return nil, err
	}
	if repos == nil {
		repos = []Repo{}
	}
	return repos, nil
}

func (c *Client) reposURL(username, sort, direction string) string {
	q := url.Values{}
	q.Set("sort", sort)
	q.Set("direction", direction)
	q.Set("per_page", strconv.Itoa(PerPage))
	return fmt.Sprintf("%s/users/%s/repos?%s", c.baseURL, url.PathEscape(username), q.Encode())
}
