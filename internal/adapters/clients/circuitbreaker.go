package clients

import (
	"sync"
	"time"
)

// State is the circuit breaker state.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures a CircuitBreaker.
type CircuitBreakerConfig struct {
	// MaxFailures consecutive failures open the circuit.
	MaxFailures int

	// Timeout is how long the circuit stays open before probing.
	Timeout time.Duration

	// HalfOpenLimit bounds in-flight probes and is the number of
	// consecutive probe successes needed to close the circuit.
	HalfOpenLimit int
}

// CircuitBreaker stops calls to a downstream that keeps failing.
//
//	closed    -> open       after MaxFailures consecutive failures
//	open      -> half-open  once Timeout has elapsed, on the next Allow
//	half-open -> closed     after HalfOpenLimit consecutive successes
//	half-open -> open       on any failure
type CircuitBreaker struct {
	mu  sync.Mutex
	cfg CircuitBreakerConfig

	state       State
	failures    int
	successes   int
	inFlight    int
	lastFailure time.Time

	onStateChange func(from, to State)
	now           func() time.Time
}

// NewCircuitBreaker returns a closed circuit breaker.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 1
	}

	if cfg.HalfOpenLimit <= 0 {
		cfg.HalfOpenLimit = 1
	}

	return &CircuitBreaker{cfg: cfg, now: time.Now}
}

// OnStateChange registers fn to be called after every transition. fn runs
// on the goroutine that caused the transition, outside the breaker's lock.
func (cb *CircuitBreaker) OnStateChange(fn func(from, to State)) {
	cb.mu.Lock()
	cb.onStateChange = fn
	cb.mu.Unlock()
}

// Allow reports whether a call may proceed. Every allowed call must be
// followed by RecordSuccess or RecordFailure.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()

	var (
		allowed bool
		changed func()
	)

	switch cb.state {
	case StateClosed:
		allowed = true
	case StateOpen:
		if cb.now().Sub(cb.lastFailure) >= cb.cfg.Timeout {
			changed = cb.moveTo(StateHalfOpen)
			cb.inFlight = 1
			allowed = true
		}
	case StateHalfOpen:
		if cb.inFlight < cb.cfg.HalfOpenLimit {
			cb.inFlight++
			allowed = true
		}
	}

	cb.mu.Unlock()
	notify(changed)

	return allowed
}

// RecordSuccess records a successful call.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()

	var changed func()

	switch cb.state {
	case StateClosed:
		cb.failures = 0
	case StateHalfOpen:
		cb.inFlight--
		cb.successes++

		if cb.successes >= cb.cfg.HalfOpenLimit {
			changed = cb.moveTo(StateClosed)
		}
	}

	cb.mu.Unlock()
	notify(changed)
}

// RecordFailure records a failed call.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()

	var changed func()

	cb.lastFailure = cb.now()

	switch cb.state {
	case StateClosed:
		cb.failures++

		if cb.failures >= cb.cfg.MaxFailures {
			changed = cb.moveTo(StateOpen)
		}
	case StateHalfOpen:
		cb.inFlight--
		changed = cb.moveTo(StateOpen)
	}

	cb.mu.Unlock()
	notify(changed)
}

// State returns the current state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.state
}

// moveTo switches state and returns the pending notification, if any.
// Callers hold cb.mu.
func (cb *CircuitBreaker) moveTo(next State) func() {
	if cb.state == next {
		return nil
	}

	prev := cb.state
	cb.state = next
	cb.failures = 0
	cb.successes = 0

	if next != StateHalfOpen {
		cb.inFlight = 0
	}

	if fn := cb.onStateChange; fn != nil {
		return func() { fn(prev, next) }
	}

	return nil
}

func notify(fn func()) {
	if fn != nil {
		fn()
	}
}
