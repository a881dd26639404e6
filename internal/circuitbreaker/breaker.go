// Package circuitbreaker stops calling a failing collaborator for a cool-down
// period after too many consecutive failures.
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrCircuitOpen     = errors.New("circuit breaker is open")
	ErrTooManyRequests = errors.New("too many requests")
)

// State represents circuit breaker state
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Option configures a CircuitBreaker.
type Option func(*CircuitBreaker)

// WithStateChange registers a hook invoked after every transition. It runs
// outside the breaker's lock.
func WithStateChange(fn func(from, to State)) Option {
	return func(cb *CircuitBreaker) { cb.onStateChange = fn }
}

// WithIsFailure decides which errors count against the circuit. Errors it
// rejects are still returned to the caller but leave the counters alone. The
// default ignores context.Canceled, which means the caller gave up rather
// than the dependency failing.
func WithIsFailure(fn func(error) bool) Option {
	return func(cb *CircuitBreaker) { cb.isFailure = fn }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(cb *CircuitBreaker) { cb.now = now }
}

// CircuitBreaker implements the circuit breaker pattern
type CircuitBreaker struct {
	maxFailures   int
	resetTimeout  time.Duration
	onStateChange func(from, to State)
	isFailure     func(error) bool
	now           func() time.Time

	mu              sync.Mutex
	state           State
	failures        int
	inTrial         bool // a half-open trial call is in flight
	lastFailureTime time.Time
	lastStateChange time.Time
}

// NewCircuitBreaker creates a new circuit breaker. maxFailures below one is
// treated as one.
func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration, opts ...Option) *CircuitBreaker {
	if maxFailures < 1 {
		maxFailures = 1
	}
	cb := &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		state:        StateClosed,
		isFailure:    notCanceled,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(cb)
	}
	if cb.isFailure == nil {
		cb.isFailure = notCanceled
	}
	cb.lastStateChange = cb.now()
	return cb
}

func notCanceled(err error) bool {
	return !errors.Is(err, context.Canceled)
}

// Call executes fn with circuit breaker protection. A panic in fn counts as
// a failure and is re-raised.
func (cb *CircuitBreaker) Call(fn func() error) (err error) {
	if err := cb.beforeCall(); err != nil {
		return err
	}

	completed := false
	defer func() {
		if !completed {
			cb.afterCall(errors.New("panic"))
		}
	}()

	err = fn()
	completed = true
	cb.afterCall(err)
	return err
}

// beforeCall checks if call is allowed
func (cb *CircuitBreaker) beforeCall() error {
	cb.mu.Lock()

	var from State
	changed := false

	switch cb.state {
	case StateOpen:
		if cb.now().Sub(cb.lastFailureTime) < cb.resetTimeout {
			cb.mu.Unlock()
			return ErrCircuitOpen
		}
		from, changed = cb.transition(StateHalfOpen)
		cb.inTrial = true

	case StateHalfOpen:
		// one trial call at a time
		if cb.inTrial {
			cb.mu.Unlock()
			return ErrTooManyRequests
		}
		cb.inTrial = true
	}

	cb.mu.Unlock()
	if changed {
		cb.notify(from, StateHalfOpen)
	}
	return nil
}

// afterCall updates circuit breaker state after call
func (cb *CircuitBreaker) afterCall(err error) {
	cb.mu.Lock()

	var (
		from, to State
		changed  bool
	)

	switch {
	case err != nil && !cb.isFailure(err):
		// neither success nor failure; free the trial slot for the next caller
		cb.inTrial = false

	case err != nil:
		cb.failures++
		cb.lastFailureTime = cb.now()

		switch cb.state {
		case StateClosed:
			if cb.failures >= cb.maxFailures {
				to = StateOpen
				from, changed = cb.transition(to)
			}
		case StateHalfOpen:
			cb.inTrial = false
			to = StateOpen
			from, changed = cb.transition(to)
		}

	default:
		switch cb.state {
		case StateHalfOpen:
			cb.inTrial = false
			to = StateClosed
			from, changed = cb.transition(to)
		case StateClosed:
			cb.failures = 0
		}
	}

	cb.mu.Unlock()
	if changed {
		cb.notify(from, to)
	}
}

// transition must be called with mu held.
func (cb *CircuitBreaker) transition(to State) (from State, changed bool) {
	from = cb.state
	if from == to {
		return from, false
	}
	cb.state = to
	cb.lastStateChange = cb.now()
	if to == StateClosed {
		cb.failures = 0
	}
	return from, true
}

func (cb *CircuitBreaker) notify(from, to State) {
	if cb.onStateChange != nil {
		cb.onStateChange(from, to)
	}
}

// State returns current circuit breaker state
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Stats returns circuit breaker statistics
func (cb *CircuitBreaker) Stats() (state State, failures int, since time.Time) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state, cb.failures, cb.lastStateChange
}
