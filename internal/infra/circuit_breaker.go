package infra

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ── Circuit Breaker ───────────────────────────────────────────────────────────
// Closed → Open → Half-Open breaker guarding outbound calls the workers make
// (SMTP today). While open, calls fail fast and the job goes to the DLQ.

// CBState represents the current circuit breaker state.
type CBState int

const (
	CBClosed   CBState = iota // normal: requests flow
	CBOpen                    // tripped: fast-fail all requests
	CBHalfOpen                // probing
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

// ErrCircuitOpen is returned when Execute is called while the CB is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreakerConfig holds tunable parameters.
type CircuitBreakerConfig struct {
	Nombre           string
	FailureThreshold int           // consecutive failures to trip open (default: 5)
	SuccessThreshold int           // consecutive successes in half-open to close (default: 2)
	OpenTimeout      time.Duration // how long to stay open before probing (default: 60s)
}

// CircuitBreaker implements the pattern with thread-safe state transitions.
type CircuitBreaker struct {
	mu    sync.Mutex
	cfg   CircuitBreakerConfig
	state CBState

	fallos    int
	exitos    int
	abiertoEn time.Time
	now       func() time.Time
}

// NewCircuitBreaker creates a CB in Closed state.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 2
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 60 * time.Second
	}
	return &CircuitBreaker{cfg: cfg, now: time.Now}
}

// State returns the current state, moving open → half-open once the timeout elapsed.
func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.estado()
}

func (cb *CircuitBreaker) estado() CBState {
	if cb.state == CBOpen && cb.now().Sub(cb.abiertoEn) >= cb.cfg.OpenTimeout {
		cb.cambiar(CBHalfOpen)
	}
	return cb.state
}

// Execute runs fn through the circuit breaker.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	if cb.estado() == CBOpen {
		cb.mu.Unlock()
		return ErrCircuitOpen
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.registrarFallo()
		return err
	}
	cb.registrarExito()
	return nil
}

func (cb *CircuitBreaker) registrarFallo() {
	cb.fallos++
	switch cb.state {
	case CBClosed:
		if cb.fallos >= cb.cfg.FailureThreshold {
			cb.abrir()
		}
	case CBHalfOpen:
		cb.abrir()
	}
}

func (cb *CircuitBreaker) registrarExito() {
	switch cb.state {
	case CBClosed:
		cb.fallos = 0
	case CBHalfOpen:
		cb.exitos++
		if cb.exitos >= cb.cfg.SuccessThreshold {
			cb.cambiar(CBClosed)
		}
	}
}

func (cb *CircuitBreaker) abrir() {
	cb.abiertoEn = cb.now()
	cb.cambiar(CBOpen)
}

func (cb *CircuitBreaker) cambiar(s CBState) {
	if cb.state == s {
		return
	}
	log.Warn().Str("breaker", cb.cfg.Nombre).Str("desde", cb.state.String()).Str("hacia", s.String()).Msg("circuit breaker cambió de estado")
	cb.state = s
	cb.fallos = 0
	cb.exitos = 0
}
