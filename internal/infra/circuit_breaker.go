package infra

import (
	"errors"
	"sync"
	"time"

	"github.com/fadesignlk/stock-master-api/internal/config"

	"github.com/rs/zerolog/log"
)

// CBState is the circuit breaker state: closed lets calls through, open
// fast-fails them, half-open lets probes through to test recovery.
type CBState int

const (
	CBClosed CBState = iota
	CBOpen
	CBHalfOpen
)

func (s CBState) String() string {
	switch s {
	case CBClosed:
		return "closed"
	case CBOpen:
		return "open"
	case CBHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned without invoking the wrapped call while the
// breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreakerConfig tunes the trip and recovery behaviour.
type CircuitBreakerConfig struct {
	FailureThreshold int           // consecutive failures before tripping
	SuccessThreshold int           // consecutive half-open successes before closing
	OpenTimeout      time.Duration // cooldown before the first probe
}

// SMTPBreakerConfig builds the mail relay breaker settings from the runtime
// configuration.
func SMTPBreakerConfig(cfg *config.Config) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: cfg.SMTPBreakerFailures,
		SuccessThreshold: cfg.SMTPBreakerSuccesses,
		OpenTimeout:      time.Duration(cfg.SMTPBreakerCooldownSec) * time.Second,
	}
}

// CircuitBreaker guards an unreliable collaborator. The mail workers send
// through it so a dead relay fast-fails instead of stalling the pool on SMTP
// timeouts.
type CircuitBreaker struct {
	cfg CircuitBreakerConfig

	mu        sync.Mutex
	state     CBState
	failures  int
	probeWins int
	trippedAt time.Time
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 2
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = time.Minute
	}
	return &CircuitBreaker{cfg: cfg, state: CBClosed}
}

// State reports the current state, moving open → half-open once the cooldown
// has elapsed.
func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.stateLocked()
}

func (cb *CircuitBreaker) stateLocked() CBState {
	if cb.state == CBOpen && time.Since(cb.trippedAt) >= cb.cfg.OpenTimeout {
		cb.transition(CBHalfOpen)
		cb.probeWins = 0
	}
	return cb.state
}

// Execute runs fn unless the breaker is open, recording the outcome.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	if cb.stateLocked() == CBOpen {
		cb.mu.Unlock()
		return ErrCircuitOpen
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.recordFailure()
		return err
	}
	cb.recordSuccess()
	return nil
}

func (cb *CircuitBreaker) recordFailure() {
	cb.failures++
	cb.trippedAt = time.Now()

	switch cb.state {
	case CBClosed:
		if cb.failures >= cb.cfg.FailureThreshold {
			cb.transition(CBOpen)
		}
	case CBHalfOpen:
		// The probe failed; back to cooldown.
		cb.failures = 0
		cb.transition(CBOpen)
	}
}

func (cb *CircuitBreaker) recordSuccess() {
	switch cb.state {
	case CBClosed:
		cb.failures = 0
	case CBHalfOpen:
		cb.probeWins++
		if cb.probeWins >= cb.cfg.SuccessThreshold {
			cb.failures = 0
			cb.probeWins = 0
			cb.transition(CBClosed)
		}
	}
}

func (cb *CircuitBreaker) transition(to CBState) {
	evt := log.Info()
	if to == CBOpen {
		evt = log.Warn()
	}
	evt.Str("from", cb.state.String()).Str("to", to.String()).Msg("circuit breaker state change")
	cb.state = to
}
