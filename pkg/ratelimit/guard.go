// Package ratelimit tracks whether the remote API has reported an exhausted
// request quota.
//
// A [Guard] is set by the remote client when it sees HTTP 429 and cleared
// on the next successful response. Callers consult [Guard.ShouldSuppress]
// before each attempt. Nothing is scheduled: once the reset time passes,
// the next caller-driven attempt simply goes through.
package ratelimit

import (
	"sync"
	"time"
)

// State is a snapshot of a guard.
type State struct {
	Limited bool
	ResetAt time.Time
	Retries int // consecutive rate-limited responses since the last success
}

// Guard is safe for concurrent use. The zero value is not limited and
// uses time.Now.
type Guard struct {
	mu    sync.Mutex
	state State
	now   func() time.Time
}

// New creates a guard. A nil now selects time.Now.
func New(now func() time.Time) *Guard {
	return &Guard{now: now}
}

func (g *Guard) clock() time.Time {
	if g.now == nil {
		return time.Now()
	}
	return g.now()
}

// ShouldSuppress reports whether the quota is exhausted and has not reset yet.
func (g *Guard) ShouldSuppress() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Limited && g.clock().Before(g.state.ResetAt)
}

// MarkLimited records an exhausted quota resetting at resetAt and counts
// the retry.
func (g *Guard) MarkLimited(resetAt time.Time) {
	g.mu.Lock()
	g.state.Limited = true
	g.state.ResetAt = resetAt
	g.state.Retries++
	g.mu.Unlock()
}

// Clear records a successful response.
func (g *Guard) Clear() {
	g.mu.Lock()
	g.state.Limited = false
	g.state.Retries = 0
	g.mu.Unlock()
}

// State returns a snapshot.
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}
