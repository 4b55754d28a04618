package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	ferrors "github.com/matzehuels/folio/pkg/errors"
	"github.com/matzehuels/folio/pkg/remote"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGitHub(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	q := remote.Query{
		Username:  params.Get("username"),
		Sort:      params.Get("sort"),
		Direction: params.Get("direction"),
	}
	if q.Username == "" {
		q.Username = s.cfg.DefaultUsername
	}
	if q.Username == "" {
		respondWithError(w, http.StatusBadRequest, "username is required")
		return
	}
	if err := q.Validate(); err != nil {
		respondWithError(w, http.StatusBadRequest, ferrors.UserMessage(err))
		return
	}
	q = q.WithDefaults()

	repos, err := s.repos.ListUserRepos(r.Context(), q.Username, q.Sort, q.Direction, false)
	if err != nil {
		s.respondUpstreamError(w, r, q.Username, err)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=300")
	respondWithJSON(w, http.StatusOK, repos)
}

func (s *Server) respondUpstreamError(w http.ResponseWriter, r *http.Request, username string, err error) {
	var rl *ferrors.RateLimitedError
	switch {
	case errors.As(err, &rl):
		if !rl.ResetAt.IsZero() {
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(rl.ResetAt.Unix(), 10))
			w.Header().Set("Retry-After", strconv.Itoa(int(rl.RetryAfter(s.now()).Seconds())))
		}
		s.logger.Warn("upstream rate limited", "user", username, "resets", rl.ResetAt)
		respondWithError(w, http.StatusTooManyRequests, "GitHub API rate limit exceeded")

	case ferrors.Is(err, ferrors.ErrCodeUserNotFound):
		respondWithError(w, http.StatusNotFound, ferrors.UserMessage(err))

	case r.Context().Err() != nil:
		respondWithError(w, http.StatusGatewayTimeout, "request cancelled")

	default:
		s.logger.Error("upstream request failed", "user", username, "error", err,
			"id", RequestIDFromContext(r.Context()))
		respondWithError(w, http.StatusBadGateway, "failed to fetch repositories from GitHub")
	}
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
