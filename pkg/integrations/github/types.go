package github

import "time"

// Repo is a repository record as returned by the GitHub REST API.
// Nullable fields (description, language, homepage) decode as empty strings.
type Repo struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	HTMLURL     string    `json:"html_url"`
	Description string    `json:"description"`
	Fork        bool      `json:"fork"`
	Stars       int       `json:"stargazers_count"`
	Language    string    `json:"language"`
	Topics      []string  `json:"topics"`
	Homepage    string    `json:"homepage"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Listing parameters accepted by the user repositories endpoint.
const (
	SortUpdated  = "updated"
	SortCreated  = "created"
	SortPushed   = "pushed"
	SortFullName = "full_name"

	DirectionAsc  = "asc"
	DirectionDesc = "desc"

	// PerPage is the page size requested upstream. Only the first page is read.
	PerPage = 100
)
