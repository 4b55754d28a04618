package remote

import (
	"testing"

	"github.com/stretchr/testify/assert"

	ferrors "github.com/matzehuels/folio/pkg/errors"
)

func TestQuerySignature(t *testing.T) {
	tests := []struct {
		name string
		a, b Query
		same bool
	}{
		{"identical", Query{"alice", "updated", "desc"}, Query{"alice", "updated", "desc"}, true},
		{"defaults applied", Query{Username: "alice"}, Query{"alice", "updated", "desc"}, true},
		{"different user", Query{Username: "alice"}, Query{Username: "bob"}, false},
		{"different sort", Query{"alice", "created", ""}, Query{"alice", "pushed", ""}, false},
		{"different direction", Query{"alice", "", "asc"}, Query{"alice", "", "desc"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.same, tt.a.Signature() == tt.b.Signature(),
				"%s vs %s", tt.a.Signature(), tt.b.Signature())
		})
	}
}

func TestQuerySignatureFormat(t *testing.T) {
	got := Query{Username: "alice", Sort: "full_name", Direction: "asc"}.Signature()
	assert.Equal(t, "/api/github?direction=asc&sort=full_name&username=alice", got)
}

func TestQueryValidate(t *testing.T) {
	tests := []struct {
		name string
		q    Query
		code ferrors.Code
	}{
		{"empty is valid", Query{}, ""},
		{"full", Query{"alice", "pushed", "asc"}, ""},
		{"bad username", Query{Username: "-alice"}, ferrors.ErrCodeInvalidUsername},
		{"bad sort", Query{Sort: "stars"}, ferrors.ErrCodeInvalidSort},
		{"bad direction", Query{Direction: "up"}, ferrors.ErrCodeInvalidDirection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.Validate()
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, ferrors.Is(err, tt.code), "Validate() error = %v, want code %s", err, tt.code)
		})
	}
}
