package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/folio/pkg/cache"
	"github.com/matzehuels/folio/pkg/integrations/github"
)

// upstream fakes the GitHub API. handler is swapped per test.
func upstream(t *testing.T, handler http.HandlerFunc) (*github.Client, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c := github.NewClient(github.Options{
		BaseURL:  srv.URL,
		Token:    "secret",
		Cache:    cache.NewMemoryCache(0, time.Hour),
		CacheTTL: time.Minute,
	})
	c.WithRetry(1, time.Millisecond)
	return c, &hits
}

func newTestServer(t *testing.T, repos RepoLister) *httptest.Server {
	t.Helper()
	s := New(repos, Config{DefaultUsername: "alice"}, log.New(io.Discard))
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, map[string]any, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var obj map[string]any
	_ = json.Unmarshal(body, &obj)
	return resp, obj, body
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, obj, _ := get(t, srv.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", obj["status"])
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))
}

func TestRequestIDEchoed(t *testing.T) {
	srv := newTestServer(t, nil)
	const id = "7f1c6a52-1c1b-4d3e-9b5e-7d4c7a8e2f10"

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, id)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, id, resp.Header.Get(RequestIDHeader))
}

func TestGitHub_Success(t *testing.T) {
	var gotPath, gotQuery, gotAuth string
	gh, hits := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]github.Repo{{ID: 1, Name: "folio", Stars: 3}})
	})
	srv := newTestServer(t, gh)

	resp, _, body := get(t, srv.URL+"/api/github?sort=created&direction=asc")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var repos []github.Repo
	require.NoError(t, json.Unmarshal(body, &repos))
	require.Len(t, repos, 1)
	assert.Equal(t, "folio", repos[0].Name)

	assert.Equal(t, "/users/alice/repos", gotPath)
	assert.Equal(t, "direction=asc&per_page=100&sort=created", gotQuery)
	assert.Equal(t, "Bearer secret", gotAuth)

	// Second request is served from the proxy's cache.
	resp, _, _ = get(t, srv.URL+"/api/github?sort=created&direction=asc")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(1), hits.Load())
}

func TestGitHub_ExplicitUsername(t *testing.T) {
	var gotPath string
	gh, _ := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`[]`))
	})
	srv := newTestServer(t, gh)

	resp, _, body := get(t, srv.URL+"/api/github?username=bob")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
	assert.Equal(t, "/users/bob/repos", gotPath)
}

func TestGitHub_RateLimited(t *testing.T) {
	reset := time.Now().Add(time.Hour).Unix()
	gh, _ := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset, 10))
		w.WriteHeader(http.StatusForbidden)
	})
	srv := newTestServer(t, gh)

	resp, obj, _ := get(t, srv.URL+"/api/github")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, strconv.FormatInt(reset, 10), resp.Header.Get("X-RateLimit-Reset"))
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
	assert.Contains(t, obj["error"], "rate limit")
}

func TestGitHub_RateLimitedNoReset(t *testing.T) {
	gh, _ := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	srv := newTestServer(t, gh)

	resp, _, _ := get(t, srv.URL+"/api/github")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("X-RateLimit-Reset"))
}

func TestGitHub_UserNotFound(t *testing.T) {
	gh, _ := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := newTestServer(t, gh)

	resp, obj, _ := get(t, srv.URL+"/api/github?username=ghost")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "GitHub user 'ghost' not found", obj["error"])
}

func TestGitHub_UpstreamFailure(t *testing.T) {
	gh, _ := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := newTestServer(t, gh)

	resp, obj, _ := get(t, srv.URL+"/api/github")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.NotEmpty(t, obj["error"])
}

func TestGitHub_InvalidParams(t *testing.T) {
	gh, hits := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	srv := newTestServer(t, gh)

	for _, q := range []string{
		"sort=stars",
		"direction=sideways",
		"username=-bad-",
	} {
		t.Run(q, func(t *testing.T) {
			resp, obj, _ := get(t, srv.URL+"/api/github?"+q)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.NotEmpty(t, obj["error"])
		})
	}
	assert.Zero(t, hits.Load())
}

func TestGitHub_NoUsername(t *testing.T) {
	s := New(nil, Config{}, log.New(io.Discard))
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, obj, _ := get(t, srv.URL+"/api/github")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "username is required", obj["error"])
}

func TestNotFoundRoute(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, obj, _ := get(t, srv.URL+"/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not found", obj["error"])
}

func TestRun_Shutdown(t *testing.T) {
	s := New(nil, Config{Addr: "127.0.0.1:0"}, log.New(io.Discard))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
