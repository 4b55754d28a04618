package remote

import (
	"net/url"

	ferrors "github.com/matzehuels/folio/pkg/errors"
	"github.com/matzehuels/folio/pkg/integrations/github"
)

// Endpoint is the proxy path that lists GitHub repositories.
const Endpoint = "/api/github"

// Query selects a repository listing.
type Query struct {
	Username  string // empty lets the proxy apply its default user
	Sort      string // updated, created, pushed or full_name
	Direction string // asc or desc
}

// WithDefaults fills an empty sort with "updated" and an empty direction
// with "desc".
func (q Query) WithDefaults() Query {
	if q.Sort == "" {
		q.Sort = github.SortUpdated
	}
	if q.Direction == "" {
		q.Direction = github.DirectionDesc
	}
	return q
}

// Validate checks each non-empty field.
func (q Query) Validate() error {
	if q.Username != "" {
		if err := ferrors.ValidateUsername(q.Username); err != nil {
			return err
		}
	}
	if err := ferrors.ValidateSort(q.Sort); err != nil {
		return err
	}
	return ferrors.ValidateDirection(q.Direction)
}

// Values encodes the query parameters with defaults applied.
func (q Query) Values() url.Values {
	q = q.WithDefaults()
	v := url.Values{}
	if q.Username != "" {
		v.Set("username", q.Username)
	}
	v.Set("sort", q.Sort)
	v.Set("direction", q.Direction)
	return v
}

// Signature identifies equivalent requests for caching and deduplication.
// Parameters are encoded in key order and defaults are applied first, so
// {Sort: ""} and {Sort: "updated"} share a signature.
func (q Query) Signature() string {
	return Endpoint + "?" + q.Values().Encode()
}
