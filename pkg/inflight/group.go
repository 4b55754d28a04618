// Package inflight deduplicates concurrent calls that share a key.
//
// A [Group] guarantees at most one running call per key. Callers that
// arrive while a call is running join it and receive the same result or
// error. The key is forgotten as soon as the call settles, successfully or
// not, so a failure never blocks later attempts.
package inflight

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Group is safe for concurrent use. The zero value is ready to use.
type Group[T any] struct {
	sf singleflight.Group

	mu      sync.Mutex
	waiting map[string]int
}

// Acquire runs start under key, or joins the call already running under
// key. joined reports whether the result came from a call another caller
// started.
//
// start receives a context detached from the caller's cancellation, since
// its result is shared. If ctx is done before the call settles, Acquire
// returns ctx.Err() and the call keeps running for the others.
func (g *Group[T]) Acquire(ctx context.Context, key string, start func(context.Context) (T, error)) (v T, joined bool, err error) {
	detached := context.WithoutCancel(ctx)
	started := false
	ch := g.sf.DoChan(key, func() (any, error) {
		started = true
		return start(detached)
	})

	g.track(key, 1)
	defer g.track(key, -1)

	select {
	case res := <-ch:
		if res.Val != nil {
			v = res.Val.(T)
		}
		return v, !started, res.Err
	case <-ctx.Done():
		return v, false, ctx.Err()
	}
}

// InFlight returns how many callers are waiting on key.
func (g *Group[T]) InFlight(key string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.waiting[key]
}

func (g *Group[T]) track(key string, delta int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.waiting == nil {
		g.waiting = make(map[string]int)
	}
	g.waiting[key] += delta
	if g.waiting[key] <= 0 {
		delete(g.waiting, key)
	}
}
