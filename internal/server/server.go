// Package server implements the same-origin proxy in front of the GitHub API.
//
// The proxy attaches the configured credential, caches upstream listings,
// and maps upstream failures onto a small HTTP contract:
//
//	GET /api/github?username=&sort=&direction=
//	  200  JSON array of repositories
//	  400  {"error": ...}   invalid username, sort or direction
//	  404  {"error": "GitHub user '<u>' not found"}
//	  429  {"error": ...}   with X-RateLimit-Reset (epoch seconds) when known
//	  502  {"error": ...}   any other upstream failure
//	GET /healthz
//	  200  {"status": "ok"}
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/folio/pkg/integrations/github"
	"github.com/matzehuels/folio/pkg/remote"
)

// RepoLister lists a user's repositories. [*github.Client] implements it.
type RepoLister interface {
	ListUserRepos(ctx context.Context, username, sort, direction string, refresh bool) ([]github.Repo, error)
}

// Config configures a [Server].
type Config struct {
	Addr            string // listen address, e.g. ":8080"
	DefaultUsername string // used when a request names no user
	RequestTimeout  time.Duration
}

// Server serves the proxy endpoints.
type Server struct {
	repos  RepoLister
	logger *log.Logger
	cfg    Config
	now    func() time.Time
}

// New creates a server. A nil logger selects log.Default().
func New(repos RepoLister, cfg Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	return &Server{repos: repos, logger: logger, cfg: cfg, now: time.Now}
}

// Handler returns the router with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Get(remote.Endpoint, s.handleGitHub)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// Run listens on cfg.Addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("proxy listening", "addr", s.cfg.Addr, "default_user", s.cfg.DefaultUsername)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
