// Package integrations provides HTTP clients for upstream code-hosting APIs.
//
// # Overview
//
// The proxy server talks to GitHub through the [github] subpackage. This
// package holds the shared plumbing: a [Client] with response caching,
// retry on transient failures, default headers, and status mapping.
//
//	c := integrations.NewClient(cache.NewMemoryCache(0, time.Hour), "github:", time.Hour, headers)
//	var repos []github.Repo
//	err := c.Cached(ctx, key, false, &repos, func() error {
//	    return c.Get(ctx, url, &repos)
//	})
//
// # Status Mapping
//
// Upstream responses map onto errors as follows:
//
//   - 2xx: success
//   - 403 with X-RateLimit-Remaining: 0, or 429: [errors.RateLimitedError]
//   - 404: [ErrNotFound]
//   - 401: [ErrUnauthorized]
//   - 5xx and transport failures: [ErrNetwork], retryable
//   - anything else: [ErrNetwork]
//
// Retryable failures are retried with exponential backoff via [cache.Retry].
// Rate limits are never retried; the reset time is passed back to the caller.
//
// [github]: github.com/matzehuels/folio/pkg/integrations/github
// [errors.RateLimitedError]: github.com/matzehuels/folio/pkg/errors.RateLimitedError
// [cache.Retry]: github.com/matzehuels/folio/pkg/cache.Retry
package integrations
