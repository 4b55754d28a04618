package cache

import (
	"sync"
	"time"
)

// DefaultExpiration is how long a [Store] entry stays valid.
const DefaultExpiration = 15 * time.Minute

// Entry is a value fetched for a request signature.
type Entry[T any] struct {
	Value     T
	Timestamp time.Time // when the value was fetched
	Username  string    // whom the value was fetched for
}

// Store is an in-memory record store keyed by request signature.
//
// Entries are never evicted. A stale entry stays in the map until a later
// Put under the same signature replaces it; [Store.IsValid] is what makes
// it invisible to readers. The set of signatures a process requests is
// small, so the map stays small too.
type Store[T any] struct {
	mu      sync.RWMutex
	entries map[string]*Entry[T]
	ttl     time.Duration
	now     func() time.Time
}

// NewStore creates a store whose entries expire after ttl.
// A ttl <= 0 selects [DefaultExpiration]; a nil now selects time.Now.
func NewStore[T any](ttl time.Duration, now func() time.Time) *Store[T] {
	if ttl <= 0 {
		ttl = DefaultExpiration
	}
	if now == nil {
		now = time.Now
	}
	return &Store[T]{
		entries: make(map[string]*Entry[T]),
		ttl:     ttl,
		now:     now,
	}
}

// TTL returns the expiration window.
func (s *Store[T]) TTL() time.Duration { return s.ttl }

// Get returns the entry stored under signature, or nil. Stale entries are
// returned too; use IsValid to decide whether to use them.
func (s *Store[T]) Get(signature string) *Entry[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[signature]
	if !ok {
		return nil
	}
	cp := *e
	return &cp
}

// Put stores value under signature, stamped with the current time.
func (s *Store[T]) Put(signature string, value T, username string) {
	e := &Entry[T]{Value: value, Timestamp: s.now(), Username: username}
	s.mu.Lock()
	s.entries[signature] = e
	s.mu.Unlock()
}

// IsValid reports whether e exists, is younger than the expiration window,
// and was fetched for username.
func (s *Store[T]) IsValid(e *Entry[T], username string) bool {
	return e != nil &&
		s.now().Sub(e.Timestamp) < s.ttl &&
		e.Username == username
}

// Lookup returns the entry under signature if it is valid for username.
func (s *Store[T]) Lookup(signature, username string) (*Entry[T], bool) {
	e := s.Get(signature)
	if !s.IsValid(e, username) {
		return nil, false
	}
	return e, true
}

// Len returns the number of entries, stale ones included.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Clear drops every entry.
func (s *Store[T]) Clear() {
	s.mu.Lock()
	s.entries = make(map[string]*Entry[T])
	s.mu.Unlock()
}
