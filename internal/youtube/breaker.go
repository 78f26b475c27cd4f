package youtube

import (
	"sync"
	"time"
)

// CircuitState represents the state of the provider circuit breaker.
type CircuitState int

const (
	// CircuitClosed is the normal state where calls are allowed.
	CircuitClosed CircuitState = iota
	// CircuitOpen is the state where calls fail fast.
	CircuitOpen
	// CircuitHalfOpen is the testing state where one call is allowed.
	CircuitHalfOpen
)

// String returns the string representation of a circuit state.
func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

const (
	defaultFailureThreshold = 5
	defaultRecoveryTimeout  = 30 * time.Second
)

// BreakerConfig configures the provider circuit breaker.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive transient failures
	// that opens the circuit. Default: 5.
	FailureThreshold int
	// RecoveryTimeout is how long the circuit stays open before a test
	// call is allowed through. Default: 30 seconds.
	RecoveryTimeout time.Duration
	// IsTransientError reports whether an error should count against the
	// circuit. Permanent errors (e.g. video not found) don't affect it.
	// If nil, all errors are treated as transient.
	IsTransientError func(error) bool
}

// Breaker guards the search/metadata provider. When it opens, provider
// calls fail fast with ErrProviderUnavailable and the caller degrades to
// its fallback path (mock results, yt-dlp metadata).
type Breaker struct {
	mu sync.Mutex

	cfg BreakerConfig

	state             CircuitState
	consecutiveErrors int
	lastStateChange   time.Time
	halfOpenInFlight  bool
}

// NewBreaker creates a circuit breaker with the given configuration.
func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = defaultFailureThreshold
	}
	if cfg.RecoveryTimeout <= 0 {
		cfg.RecoveryTimeout = defaultRecoveryTimeout
	}
	return &Breaker{cfg: cfg}
}

// Allow reports whether a provider call should proceed. It returns
// ErrProviderUnavailable while the circuit is open.
func (b *Breaker) Allow() error {
	if b == nil {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitClosed:
		return nil

	case CircuitOpen:
		if time.Since(b.lastStateChange) >= b.cfg.RecoveryTimeout {
			b.state = CircuitHalfOpen
			b.lastStateChange = time.Now()
			b.halfOpenInFlight = true
			return nil
		}
		return ErrProviderUnavailable

	case CircuitHalfOpen:
		if !b.halfOpenInFlight {
			b.halfOpenInFlight = true
			return nil
		}
		return ErrProviderUnavailable

	default:
		return nil
	}
}

// Record updates the circuit with the outcome of a provider call.
func (b *Breaker) Record(err error) {
	if b == nil {
		return
	}

	if err == nil {
		b.recordSuccess()
		return
	}
	if b.cfg.IsTransientError != nil && !b.cfg.IsTransientError(err) {
		return
	}
	b.recordFailure()
}

func (b *Breaker) recordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitHalfOpen:
		b.state = CircuitClosed
		b.lastStateChange = time.Now()
		b.consecutiveErrors = 0
		b.halfOpenInFlight = false
	case CircuitClosed:
		b.consecutiveErrors = 0
	}
}

func (b *Breaker) recordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitClosed:
		b.consecutiveErrors++
		if b.consecutiveErrors >= b.cfg.FailureThreshold {
			b.state = CircuitOpen
			b.lastStateChange = time.Now()
		}
	case CircuitHalfOpen:
		b.state = CircuitOpen
		b.lastStateChange = time.Now()
		b.consecutiveErrors++
		b.halfOpenInFlight = false
	}
}

// State returns the current circuit state.
func (b *Breaker) State() CircuitState {
	if b == nil {
		return CircuitClosed
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
