// Package projects turns raw GitHub repository records into display-ready
// project records.
//
// [Transform] is pure and total: it never fails and never mutates its input.
// Calling it twice on the same records yields equal results, so callers can
// cache raw records once and re-apply different [Filter] values on read.
package projects

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/matzehuels/folio/pkg/integrations"
	"github.com/matzehuels/folio/pkg/integrations/github"
)

// Placeholder is the description given to repositories that have none.
const Placeholder = "No description provided"

// maxTopics is how many topics follow the language in a project's tags.
const maxTopics = 3

// Project is a normalized repository ready for display.
type Project struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Link        string   `json:"link"`
	Stars       int      `json:"stars"`
	Language    string   `json:"language,omitempty"`
}

// Filter selects which repositories become projects. The zero value keeps
// everything.
type Filter struct {
	MinStars     int  // drop repositories with fewer stars; 0 disables
	ExcludeForks bool // drop forks regardless of stars
}

// Keep reports whether r passes the filter.
func (f Filter) Keep(r github.Repo) bool {
	if f.MinStars > 0 && r.Stars < f.MinStars {
		return false
	}
	return !(f.ExcludeForks && r.Fork)
}

// Transform converts repos into projects, preserving order and dropping
// records rejected by f. The result is never nil.
func Transform(repos []github.Repo, f Filter) []Project {
	out := make([]Project, 0, len(repos))
	for _, r := range repos {
		if f.Keep(r) {
			out = append(out, FromRepo(r))
		}
	}
	return out
}

// FromRepo converts a single repository.
func FromRepo(r github.Repo) Project {
	desc := r.Description
	if desc == "" {
		desc = Placeholder
	}
	return Project{
		ID:          r.ID,
		Title:       FormatTitle(r.Name),
		Description: desc,
		Tags:        Tags(r.Language, r.Topics),
		Link:        integrations.NormalizeRepoURL(r.HTMLURL),
		Stars:       r.Stars,
		Language:    r.Language,
	}
}

// FormatTitle splits a repository name on every hyphen and underscore and
// capitalizes the first letter of each part: "my-cool_repo" becomes
// "My Cool Repo". The rest of each part keeps its case. Adjacent
// separators leave empty parts, so "a--b" becomes "A  B".
func FormatTitle(name string) string {
	parts := strings.Split(strings.ReplaceAll(name, "_", "-"), "-")
	for i, p := range parts {
		if p == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(p)
		parts[i] = string(unicode.ToUpper(r)) + p[size:]
	}
	return strings.Join(parts, " ")
}

// Tags returns language followed by at most three topics, skipping empty
// entries.
func Tags(language string, topics []string) []string {
	tags := make([]string, 0, 1+maxTopics)
	if language != "" {
		tags = append(tags, language)
	}
	for _, t := range topics[:min(len(topics), maxTopics)] {
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
