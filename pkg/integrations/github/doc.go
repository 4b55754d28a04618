// Package github provides an HTTP client for the GitHub API.
//
// # Overview
//
// This package lists a user's public repositories from GitHub
// (https://api.github.com). The proxy server uses it to answer
// /api/github requests, and the [Repo] type doubles as the raw record the
// client-side pipeline transforms into projects.
//
// # Usage
//
//	client := github.NewClient(github.Options{Token: token, Cache: c, CacheTTL: time.Hour})
//
//	repos, err := client.ListUserRepos(ctx, "octocat", "updated", "desc", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Authentication
//
// A GitHub personal access token is optional but recommended to avoid rate
// limits. Without a token, the client is limited to 60 requests/hour.
// With a token, the limit is 5000 requests/hour.
//
// # Caching
//
// Listings are cached under [cache.Keyer.ReposKey], so a scoped keyer lets
// several deployments share one redis instance. Pass refresh=true to bypass
// the cache.
package github
