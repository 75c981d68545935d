package service

import (
	"sync"
	"time"
)

// CircuitBreaker is a closed/open failure guard for a single collaborator.
// It is process-local and injected wherever needed so tests can reset it
// deterministically; state is never shared across instances.
type CircuitBreaker struct {
	mu        sync.Mutex
	threshold int
	reset     time.Duration
	failures  int
	openedAt  time.Time
	now       func() time.Time
}

// NewCircuitBreaker opens after threshold consecutive failures and closes
// again once the reset window has elapsed.
func NewCircuitBreaker(threshold int, reset time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		threshold: threshold,
		reset:     reset,
		now:       time.Now,
	}
}

// Allow reports whether a call may proceed. An open breaker auto-resets
// after the reset window and allows a probe call through.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.failures < cb.threshold {
		return true
	}
	if cb.now().Sub(cb.openedAt) >= cb.reset {
		cb.failures = 0
		return true
	}
	return false
}

// Success closes the breaker.
func (cb *CircuitBreaker) Success() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures = 0
}

// Failure records one failed call, opening the breaker at the threshold.
func (cb *CircuitBreaker) Failure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures++
	if cb.failures == cb.threshold {
		cb.openedAt = cb.now()
	}
}
