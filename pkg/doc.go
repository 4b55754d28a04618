// Package pkg provides the libraries behind folio, a portfolio site's
// GitHub repository pipeline.
//
// # Overview
//
// Folio fetches a user's public repositories through a same-origin proxy,
// caches them, and turns them into project cards. The pkg directory is
// organized into three areas:
//
//  1. Domain - [projects] (record transform) and [fetcher] (orchestration)
//  2. Coordination - [cache] stores, [inflight] request deduplication, and
//     [ratelimit] suppression
//  3. Transport - [remote] (proxy client) and [integrations] (upstream
//     GitHub client used by the proxy)
//
// # Architecture
//
// The data flow for one fetch:
//
//	fetcher.Client.Projects / Loader
//	         ↓
//	    ratelimit.Guard (skip while limited)
//	         ↓
//	    cache.Store (fresh entry for signature and username?)
//	         ↓
//	    inflight.Group (join or start the call)
//	         ↓
//	    remote.Client → GET /api/github → proxy → api.github.com
//	         ↓
//	    projects.Transform (filter and normalize)
//
// # Quick Start
//
//	import "github.com/matzehuels/folio/pkg/fetcher"
//
//	client := fetcher.New("http://localhost:8080")
//	ps, err := client.Projects(ctx, "octocat", fetcher.Options{
//	    MinStars:     1,
//	    ExcludeForks: true,
//	})
//
// Long-lived consumers use a loader, which debounces parameter changes and
// discards results that arrive after it is closed:
//
//	l := client.NewLoader(ctx, "octocat", fetcher.Options{}, true)
//	defer l.Close()
//	l.OnChange(func(s fetcher.State) { render(s.Projects, s.Loading, s.Err) })
//
// # Supporting Packages
//
// [errors] - Error codes, typed RateLimitedError and NetworkError, and input
// validation for usernames, sort fields and directions.
//
// [observability] - Hook interfaces for fetch, cache and HTTP events. All
// hooks default to no-ops.
//
// [buildinfo] - Version information set through ldflags.
package pkg
