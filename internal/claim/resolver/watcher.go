// Package resolver finds claimant records by document number: debounced
// lookups while the user types, and the find-or-create pipeline run at
// submission time.
package resolver

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/martirspe/complaints-book-pro/internal/backend"
	"github.com/martirspe/complaints-book-pro/internal/claim/catalog"
)

// DefaultDebounce is the quiet period before a typed number is looked up.
const DefaultDebounce = 600 * time.Millisecond

// LookupFunc fetches the person registered under number.
type LookupFunc func(ctx context.Context, number string) (backend.Person, error)

// Result is a completed lookup. Gen identifies the observation it answers;
// owners must pass it to Commit before applying Person.
type Result struct {
	Gen    uint64
	Number string
	Person backend.Person
}

// Watcher follows one document-number field. Each Observe supersedes the
// previous one: pending timers stop, in-flight lookups are cancelled and
// their late answers fail Commit.
type Watcher struct {
	mu         sync.Mutex
	ctx        context.Context
	debounce   time.Duration
	lookup     LookupFunc
	onFound    func(Result)
	onError    func(gen uint64, err error)
	gen        uint64
	timer      *time.Timer
	cancel     context.CancelFunc
	lastLoaded string
}

type WatcherOption func(*Watcher)

func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// OnFound is called from the lookup goroutine when a record is found.
func OnFound(fn func(Result)) WatcherOption {
	return func(w *Watcher) {
		w.onFound = fn
	}
}

// OnError is called for lookup failures other than not-found and cancellation.
func OnError(fn func(gen uint64, err error)) WatcherOption {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// NewWatcher returns a watcher whose lookups run under ctx.
func NewWatcher(ctx context.Context, lookup LookupFunc, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		ctx:      ctx,
		debounce: DefaultDebounce,
		lookup:   lookup,
		onFound:  func(Result) {},
		onError:  func(uint64, error) {},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Observe records a new value of the field. A lookup is scheduled only if the
// value is lookupable under rule and differs from the last loaded number.
// It reports whether a lookup was scheduled.
func (w *Watcher) Observe(value string, rule catalog.Rule) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stopLocked()
	if value == "" || value == w.lastLoaded || !rule.Lookupable(value) {
		return false
	}

	gen := w.gen
	w.timer = time.AfterFunc(w.debounce, func() { w.run(gen, value) })
	return true
}

// Invalidate drops any pending or in-flight lookup.
func (w *Watcher) Invalidate() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopLocked()
}

// ResetMemo forgets the last loaded number so the same number is looked up again.
func (w *Watcher) ResetMemo() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastLoaded = ""
}

// Commit accepts a result if no newer observation happened since it was
// scheduled, recording its number as the last loaded one.
func (w *Watcher) Commit(res Result) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if res.Gen != w.gen {
		return false
	}
	w.lastLoaded = res.Number
	return true
}

// Current reports whether gen is still the latest observation.
func (w *Watcher) Current(gen uint64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return gen == w.gen
}

func (w *Watcher) LastLoaded() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastLoaded
}

func (w *Watcher) stopLocked() {
	w.gen++
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
}

func (w *Watcher) run(gen uint64, number string) {
	w.mu.Lock()
	if gen != w.gen {
		w.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(w.ctx)
	w.cancel = cancel
	w.mu.Unlock()
	defer cancel()

	p, err := w.lookup(ctx, number)
	switch {
	case err == nil:
		w.onFound(Result{Gen: gen, Number: number, Person: p})
	case backend.IsNotFound(err), errors.Is(err, context.Canceled):
	default:
		w.onError(gen, err)
	}
}
