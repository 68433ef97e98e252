// Package circuitbreaker guards calls to the advice store, the cost database
// and the order system so an outage fails fast instead of piling up requests.
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrCircuitOpen is returned without calling the guarded function while the
// circuit is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State represents the state of the circuit breaker.
type State int

const (
	// StateClosed lets calls through and counts consecutive failures.
	StateClosed State = iota
	// StateOpen rejects calls until the open timeout has passed.
	StateOpen
	// StateHalfOpen lets trial calls through; one failure reopens.
	StateHalfOpen
)

// String returns the string representation of the state.
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

// Config holds circuit breaker configuration.
type Config struct {
	// FailureThreshold is the number of consecutive failures that opens the circuit.
	FailureThreshold int
	// SuccessThreshold is the number of half-open successes that closes it again.
	SuccessThreshold int
	// Timeout is how long the circuit stays open before a trial call.
	Timeout time.Duration
	// Name identifies the breaker in logs and metrics.
	Name string
	// Now is the clock used for the open timeout. Defaults to time.Now.
	Now func() time.Time
	// OnStateChange is called with the lock held after every transition.
	OnStateChange func(name string, to State)
}

// DefaultConfig returns a default circuit breaker configuration.
func DefaultConfig() Config {
	return Config{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Timeout:          30 * time.Second,
		Name:             "circuit-breaker",
	}
}

// CircuitBreaker counts consecutive failures of the calls it guards.
type CircuitBreaker struct {
	config       Config
	mu           sync.RWMutex
	state        State
	failures     int
	successes    int
	lastFailure  time.Time
	rejectedOpen int64
}

// New creates a circuit breaker. Zero thresholds and timeout fall back to
// DefaultConfig.
func New(config Config) *CircuitBreaker {
	def := DefaultConfig()
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = def.FailureThreshold
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = def.SuccessThreshold
	}
	if config.Timeout <= 0 {
		config.Timeout = def.Timeout
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &CircuitBreaker{config: config}
}

// Name returns the configured name.
func (cb *CircuitBreaker) Name() string {
	return cb.config.Name
}

// Execute runs fn unless the circuit is open. Every non-nil error from fn
// counts as a failure.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func() error) error {
	return cb.ExecuteTolerating(ctx, fn)
}

// ExecuteTolerating is Execute where errors matching one of tolerated are
// returned to the caller but counted as successes. Lookups that find nothing
// and lost insert races are answers from a healthy dependency.
//
// A context that is already done is reported without touching the counters.
func (cb *CircuitBreaker) ExecuteTolerating(ctx context.Context, fn func() error, tolerated ...error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !cb.admit() {
		return ErrCircuitOpen
	}

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err == nil || isTolerated(err, tolerated) {
		cb.onSuccess()
	} else {
		cb.onFailure()
	}
	return err
}

func isTolerated(err error, tolerated []error) bool {
	for _, t := range tolerated {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// admit reports whether a call may proceed, moving an expired open circuit
// to half-open.
func (cb *CircuitBreaker) admit() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state != StateOpen {
		return true
	}
	if cb.config.Now().Sub(cb.lastFailure) < cb.config.Timeout {
		cb.rejectedOpen++
		return false
	}
	cb.transition(StateHalfOpen)
	cb.successes = 0
	log.Info().Str("circuit_breaker", cb.config.Name).Msg("Circuit breaker half-open, allowing trial calls")
	return true
}

func (cb *CircuitBreaker) transition(to State) {
	cb.state = to
	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(cb.config.Name, to)
	}
}

func (cb *CircuitBreaker) onFailure() {
	cb.failures++
	cb.lastFailure = cb.config.Now()

	switch cb.state {
	case StateClosed:
		if cb.failures >= cb.config.FailureThreshold {
			cb.transition(StateOpen)
			log.Warn().
				Str("circuit_breaker", cb.config.Name).
				Int("failure_count", cb.failures).
				Msg("Circuit breaker opened")
		}
	case StateHalfOpen:
		cb.transition(StateOpen)
		cb.failures = cb.config.FailureThreshold
		log.Warn().Str("circuit_breaker", cb.config.Name).Msg("Circuit breaker reopened after failed trial call")
	}
}

func (cb *CircuitBreaker) onSuccess() {
	cb.failures = 0
	if cb.state != StateHalfOpen {
		return
	}
	cb.successes++
	if cb.successes >= cb.config.SuccessThreshold {
		cb.transition(StateClosed)
		cb.successes = 0
		log.Info().Str("circuit_breaker", cb.config.Name).Msg("Circuit breaker closed")
	}
}

// State returns the current state of the circuit breaker.
func (cb *CircuitBreaker) State() State {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

// IsOpen reports whether calls are currently being rejected.
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.State() == StateOpen
}

// Stats is a snapshot of the breaker for health reporting.
type Stats struct {
	State        string
	FailureCount int
	SuccessCount int
	Rejected     int64
	LastFailure  time.Time
	IsHealthy    bool
}

// GetStats returns current circuit breaker statistics.
func (cb *CircuitBreaker) GetStats() Stats {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	return Stats{
		State:        cb.state.String(),
		FailureCount: cb.failures,
		SuccessCount: cb.successes,
		Rejected:     cb.rejectedOpen,
		LastFailure:  cb.lastFailure,
		IsHealthy:    cb.state == StateClosed,
	}
}
