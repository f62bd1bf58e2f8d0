// Package circuit stops calling a dependency that keeps failing and probes it
// again after a cooldown.
package circuit

import (
	"sync"
	"time"
)

// State is the breaker state.
type State int

const (
	// StateClosed lets every call through.
	StateClosed State = iota
	// StateOpen refuses calls until the cooldown elapses.
	StateOpen
	// StateHalfOpen lets a single probe through.
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "closed"
	}
}

// Outcome is what a guarded call reports back.
type Outcome int

const (
	Success Outcome = iota
	Failure
	// Ignored calls neither heal nor trip the breaker, e.g. cancelled calls
	// or answers that prove the dependency is up but the input was wrong.
	Ignored
)

// Breaker counts consecutive failures. After FailureThreshold of them it opens
// and refuses calls for the cooldown; then one probe decides whether it closes
// again or stays open for another cooldown.
type Breaker struct {
	mu               sync.Mutex
	name             string
	state            State
	failures         int
	failureThreshold int
	cooldown         time.Duration
	openedAt         time.Time
	now              func() time.Time
	onChange         func(name string, from, to State)
}

// Option configures a Breaker instance.
type Option func(*Breaker)

// WithFailureThreshold sets the consecutive failures that open the circuit.
// Default is 5.
func WithFailureThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.failureThreshold = n
		}
	}
}

// WithCooldown sets how long an open circuit refuses calls. Default is 30s.
func WithCooldown(d time.Duration) Option {
	return func(b *Breaker) {
		if d > 0 {
			b.cooldown = d
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(b *Breaker) {
		b.now = now
	}
}

// OnStateChange registers fn, called outside the lock on every transition.
func OnStateChange(fn func(name string, from, to State)) Option {
	return func(b *Breaker) {
		b.onChange = fn
	}
}

// New creates a circuit breaker with the given name and options.
func New(name string, opts ...Option) *Breaker {
	b := &Breaker{
		name:             name,
		state:            StateClosed,
		failureThreshold: 5,
		cooldown:         30 * time.Second,
		now:              time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Name returns the circuit breaker's name for logging/metrics.
func (b *Breaker) Name() string {
	return b.name
}

// State returns the current circuit state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Allow reports whether a call may proceed. Every allowed call must be
// followed by exactly one Record.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	from := b.state
	allowed := false
	switch b.state {
	case StateClosed:
		allowed = true
	case StateOpen:
		if b.now().Sub(b.openedAt) >= b.cooldown {
			b.state = StateHalfOpen
			allowed = true
		}
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
	return allowed
}

// Record reports the outcome of an allowed call.
func (b *Breaker) Record(o Outcome) {
	b.mu.Lock()
	from := b.state
	switch o {
	case Success:
		b.failures = 0
		b.state = StateClosed
	case Failure:
		b.failures++
		if b.state == StateHalfOpen || b.failures >= b.failureThreshold {
			b.state = StateOpen
			b.openedAt = b.now()
		}
	case Ignored:
		// a probe that proved nothing lets the next call probe again
		if b.state == StateHalfOpen {
			b.state = StateOpen
		}
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
}

// Reset closes the circuit and clears the failure count.
func (b *Breaker) Reset() {
	b.mu.Lock()
	from := b.state
	b.state = StateClosed
	b.failures = 0
	b.mu.Unlock()

	b.notify(from, StateClosed)
}

func (b *Breaker) notify(from, to State) {
	if from != to && b.onChange != nil {
		b.onChange(b.name, from, to)
	}
}
