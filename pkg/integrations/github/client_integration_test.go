//go:build integration

package github

import (
	"context"
	"os"
	"testing"
	"time"

	ferrors "github.com/matzehuels/folio/pkg/errors"
)

func TestListUserRepos_Integration(t *testing.T) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		t.Skip("GITHUB_TOKEN not set, skipping integration test")
	}

	client := NewClient(Options{Token: token, CacheTTL: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tests := []struct {
		name     string
		username string
		wantCode ferrors.Code
	}{
		{"octocat", "octocat", ""},
		{"nonexistent", "nonexistent-user-folio-12345", ferrors.ErrCodeUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repos, err := client.ListUserRepos(ctx, tt.username, "", "", true)
			if tt.wantCode != "" {
				if !ferrors.Is(err, tt.wantCode) {
					t.Errorf("ListUserRepos(%q) error = %v, want code %s", tt.username, err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("ListUserRepos(%q) error = %v", tt.username, err)
			}
			if len(repos) == 0 {
				t.Error("expected at least one repository")
			}
			for _, r := range repos {
				if r.HTMLURL == "" {
					t.Errorf("repo %q has no html_url", r.Name)
				}
			}
		})
	}
}
