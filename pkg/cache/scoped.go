package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one backend (a single redis instance, for example) without key collisions.
//
//	staging := NewScopedKeyer(NewDefaultKeyer(), "folio:staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ReposKey generates a prefixed key for repository listings.
func (k *ScopedKeyer) ReposKey(username string, opts ReposKeyOpts) string {
	return k.prefix + k.inner.ReposKey(username, opts)
}
