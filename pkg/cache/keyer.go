package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Keyer derives byte-cache keys for the proxy server.
type Keyer interface {
	// ReposKey generates a key for a user's repository listing.
	ReposKey(username string, opts ReposKeyOpts) string
}

// ReposKeyOpts holds the listing parameters that change the upstream response.
type ReposKeyOpts struct {
	Sort      string `json:"sort"`
	Direction string `json:"direction"`
	PerPage   int    `json:"per_page"`
}

// DefaultKeyer generates hashed keys without scoping.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ReposKey hashes the username and listing options. Usernames are
// case-insensitive upstream, so they are lowercased first.
func (DefaultKeyer) ReposKey(username string, opts ReposKeyOpts) string {
	return hashKey("repos", strings.ToLower(username), opts)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
