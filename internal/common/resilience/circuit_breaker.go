package resilience

import (
	"context"
	"sync"
	"time"

	commonerrors "github.com/AlibekovAA/profile-editor/internal/common/errors"
	"github.com/AlibekovAA/profile-editor/internal/common/logger"
	"github.com/AlibekovAA/profile-editor/internal/observability/metrics"
)

type breakerState int

const (
	stateClosed breakerState = iota
	stateOpen
	stateHalfOpen
)

func (s breakerState) String() string {
	switch s {
	case stateOpen:
		return "open"
	case stateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

type CircuitBreakerConfig struct {
	// Threshold consecutive failures open the circuit.
	Threshold int32
	// Timeout bounds each guarded call.
	Timeout time.Duration
	// ResetAfter is how long the circuit stays open before one probe call
	// is let through.
	ResetAfter time.Duration
	Name       string
	Logger     *logger.Logger
	// Ignore marks errors that do not count as failures. Nil falls back to
	// IsExpectedError.
	Ignore func(error) bool
	Now    func() time.Time
}

// IsExpectedError treats not-found and validation outcomes as healthy
// responses from the dependency.
func IsExpectedError(err error) bool {
	de, ok := commonerrors.AsDomainError(err)
	if !ok {
		return false
	}
	switch de.Category() {
	case commonerrors.CategoryNotFound, commonerrors.CategoryValidation:
		return true
	}
	return false
}

type CircuitBreaker struct {
	cfg CircuitBreakerConfig

	mu       sync.Mutex
	state    breakerState
	failures int32
	openedAt time.Time
	probing  bool
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.Ignore == nil {
		cfg.Ignore = IsExpectedError
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = 1
	}
	return &CircuitBreaker{cfg: cfg}
}

// IsOpen reports whether calls are currently rejected without running.
func (cb *CircuitBreaker) IsOpen() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.advance()
	return cb.state == stateOpen || (cb.state == stateHalfOpen && cb.probing)
}

// advance moves an expired open circuit to half-open. Caller holds mu.
func (cb *CircuitBreaker) advance() {
	if cb.state == stateOpen && cb.cfg.Now().Sub(cb.openedAt) >= cb.cfg.ResetAfter {
		cb.transition(stateHalfOpen)
	}
}

// admit decides whether a call may run. A half-open circuit admits one probe.
func (cb *CircuitBreaker) admit() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.advance()

	switch cb.state {
	case stateClosed:
		return true
	case stateHalfOpen:
		if cb.probing {
			return false
		}
		cb.probing = true
		return true
	default:
		return false
	}
}

func (cb *CircuitBreaker) onResult(failed bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	wasProbe := cb.state == stateHalfOpen
	cb.probing = false

	if !failed {
		cb.failures = 0
		if wasProbe {
			cb.transition(stateClosed)
		}
		return
	}

	cb.failures++
	if cb.cfg.Name != "" {
		metrics.CircuitBreakerFailures.WithLabelValues(cb.cfg.Name).Inc()
	}
	if wasProbe || cb.failures >= cb.cfg.Threshold {
		cb.openedAt = cb.cfg.Now()
		cb.transition(stateOpen)
	}
}

// transition records the new state. Caller holds mu.
func (cb *CircuitBreaker) transition(to breakerState) {
	if cb.state == to {
		return
	}
	from := cb.state
	cb.state = to

	if cb.cfg.Name != "" {
		open := 0.0
		if to == stateOpen {
			open = 1
		}
		metrics.CircuitBreakerState.WithLabelValues(cb.cfg.Name).Set(open)
	}
	if cb.cfg.Logger != nil {
		cb.cfg.Logger.WithFields(context.Background(), logger.Fields{
			"breaker":  cb.cfg.Name,
			"failures": cb.failures,
		}).Warnf("circuit breaker %s -> %s", from, to)
	}
}

func (cb *CircuitBreaker) Call(ctx context.Context, fn func(context.Context) error) error {
	return cb.CallWithFallback(ctx, fn, nil)
}

// CallWithFallback runs fn under the breaker. fallback, when set, replaces
// both the rejection error and any failure from fn.
func (cb *CircuitBreaker) CallWithFallback(ctx context.Context, fn func(context.Context) error, fallback func() error) error {
	if !cb.admit() {
		if fallback != nil {
			return fallback()
		}
		return commonerrors.ErrCircuitOpen
	}

	callCtx := ctx
	if cb.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, cb.cfg.Timeout)
		defer cancel()
	}

	err := fn(callCtx)
	cb.onResult(err != nil && !cb.cfg.Ignore(err))

	if err != nil && fallback != nil {
		return fallback()
	}
	return err
}
