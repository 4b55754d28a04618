package fetcher

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/matzehuels/folio/pkg/projects"
)

// State is what a [Loader] exposes to its consumer.
//
// Err is non-nil exactly when the latest applied attempt failed without a
// store hit. Projects keeps the last successful result across failures.
type State struct {
	Projects []projects.Project
	Loading  bool // true only while the loader's first attempt is running
	Err      error
}

// Loader is a long-lived consumer of a [Client]: it holds one username and
// set of options, fetches when they change, and publishes [State].
//
// Every attempt captures a generation number. A result is applied only if
// its generation is still current, so a response that arrives after
// [Loader.Close], or after a newer attempt began, never touches state.
type Loader struct {
	client *Client
	ctx    context.Context

	mu          sync.Mutex
	username    string
	opts        Options
	shouldFetch bool
	state       State
	settled     bool // an attempt has completed on this loader
	gen         uint64
	closed      bool
	timer       *time.Timer
	pending     uint64 // current debounce trigger
	listeners   []func(State)
}

// NewLoader creates a loader for username. If shouldFetch is true, the
// first attempt is scheduled after the debounce delay. ctx bounds the
// debounced attempts; cancelling it has the same effect as Close for
// attempts that have not started.
func (c *Client) NewLoader(ctx context.Context, username string, opts Options, shouldFetch bool) *Loader {
	if ctx == nil {
		ctx = context.Background()
	}
	l := &Loader{
		client:      c,
		ctx:         ctx,
		username:    username,
		opts:        opts,
		shouldFetch: shouldFetch,
	}
	if shouldFetch {
		l.mu.Lock()
		l.scheduleLocked()
		l.mu.Unlock()
	}
	return l
}

// State returns a snapshot of the loader's state.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// OnChange registers fn to be called with the new state after every
// update. Callbacks run on the goroutine that applied the update and must
// not block.
func (l *Loader) OnChange(fn func(State)) {
	l.mu.Lock()
	l.listeners = append(l.listeners, fn)
	l.mu.Unlock()
}

// SetParams changes the username and options and schedules a debounced
// attempt if fetching is enabled. Unchanged parameters are a no-op.
func (l *Loader) SetParams(username string, opts Options) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || (username == l.username && opts == l.opts) {
		return
	}
	l.username, l.opts = username, opts
	if l.shouldFetch {
		l.scheduleLocked()
	}
}

// SetShouldFetch enables or disables fetching. Enabling schedules a
// debounced attempt; disabling cancels a pending one.
func (l *Loader) SetShouldFetch(v bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || v == l.shouldFetch {
		return
	}
	l.shouldFetch = v
	if v {
		l.scheduleLocked()
	} else {
		l.cancelLocked()
	}
}

// Refetch runs an attempt now with the current parameters and returns when
// it settles. A pending debounced attempt is cancelled. Refetch honours
// ForceFresh; call [Client.ClearCache] first to bypass the store once.
func (l *Loader) Refetch(ctx context.Context) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.cancelLocked()
	l.mu.Unlock()
	l.run(ctx)
}

// Close stops the loader. Pending attempts are cancelled and results of
// running ones are discarded.
func (l *Loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	l.gen++
	l.cancelLocked()
	l.listeners = nil
}

func (l *Loader) scheduleLocked() {
	l.cancelLocked()
	l.pending++
	id := l.pending
	l.timer = time.AfterFunc(l.client.debounce, func() {
		l.mu.Lock()
		current := id == l.pending && !l.closed
		l.mu.Unlock()
		if current && l.ctx.Err() == nil {
			l.run(l.ctx)
		}
	})
}

func (l *Loader) cancelLocked() {
	l.pending++
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
}

// run performs one attempt.
func (l *Loader) run(ctx context.Context) {
	c := l.client
	if c.suppressed(ctx) != nil {
		return
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.gen++
	gen := l.gen
	username, opts := l.username, l.opts
	l.mu.Unlock()

	q := opts.Query(username)
	if ps, ok := c.lookup(q, opts); ok {
		l.apply(gen, true, func(s *State) {
			s.Projects = ps
			s.Loading = false
			s.Err = nil
		})
		return
	}

	l.apply(gen, false, func(s *State) {
		if !l.settled {
			s.Loading = true
		}
		s.Err = nil
	})

	repos, err := c.fetch(ctx, q)
	if err != nil {
		if ctx.Err() != nil {
			// Abandoned by the caller; the next attempt owns the state.
			l.apply(gen, false, func(s *State) { s.Loading = false })
			return
		}
		l.apply(gen, true, func(s *State) {
			s.Loading = false
			s.Err = err
		})
		return
	}

	ps := projects.Transform(repos, opts.Filter())
	l.apply(gen, true, func(s *State) {
		s.Projects = ps
		s.Loading = false
		s.Err = nil
	})
}

// apply runs update if gen is still current and notifies listeners.
// settle marks the loader as having completed an attempt.
func (l *Loader) apply(gen uint64, settle bool, update func(*State)) bool {
	l.mu.Lock()
	if l.closed || gen != l.gen {
		l.mu.Unlock()
		return false
	}
	update(&l.state)
	if settle {
		l.settled = true
	}
	s := l.snapshotLocked()
	listeners := slices.Clone(l.listeners)
	l.mu.Unlock()

	for _, fn := range listeners {
		fn(s)
	}
	return true
}

func (l *Loader) snapshotLocked() State {
	s := l.state
	s.Projects = append([]projects.Project(nil), l.state.Projects...)
	return s
}
