package cache

import (
	"errors"
	"sync"
	"time"
)

// Store is what cache consumers depend on. Both RedisCache and the
// breaker-guarded wrapper satisfy it.
type Store interface {
	Get(key string, dest interface{}) error
	Set(key string, value interface{}, expiration time.Duration) error
	Delete(key string) error
	DeletePattern(pattern string) error
}

var ErrCircuitOpen = errors.New("cache circuit breaker is open")

type circuitState int

const (
	circuitClosed circuitState = iota
	circuitOpen
	circuitHalfOpen
)

type CircuitBreaker struct {
	mu              sync.Mutex
	state           circuitState
	failureCount    int
	successCount    int
	lastFailureTime time.Time

	maxFailures      int
	timeout          time.Duration
	halfOpenMaxCalls int
}

type CircuitBreakerConfig struct {
	MaxFailures      int           `json:"max_failures"`
	Timeout          time.Duration `json:"timeout"`
	HalfOpenMaxCalls int           `json:"half_open_max_calls"`
}

func DefaultCircuitBreakerConfig() *CircuitBreakerConfig {
	return &CircuitBreakerConfig{
		MaxFailures:      5,
		Timeout:          30 * time.Second,
		HalfOpenMaxCalls: 3,
	}
}

func NewCircuitBreaker(config *CircuitBreakerConfig) *CircuitBreaker {
	if config == nil {
		config = DefaultCircuitBreakerConfig()
	}

	return &CircuitBreaker{
		state:            circuitClosed,
		maxFailures:      config.MaxFailures,
		timeout:          config.Timeout,
		halfOpenMaxCalls: config.HalfOpenMaxCalls,
	}
}

func (cb *CircuitBreaker) Execute(fn func() error) error {
	if !cb.allow() {
		return ErrCircuitOpen
	}

	if err := fn(); err != nil {
		cb.recordFailure()
		return err
	}

	cb.recordSuccess()
	return nil
}

func (cb *CircuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case circuitClosed:
		return true
	case circuitOpen:
		if time.Since(cb.lastFailureTime) >= cb.timeout {
			cb.state = circuitHalfOpen
			cb.successCount = 0
			return true
		}
		return false
	case circuitHalfOpen:
		return cb.successCount < cb.halfOpenMaxCalls
	default:
		return false
	}
}

func (cb *CircuitBreaker) recordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount++
	cb.lastFailureTime = time.Now()

	switch cb.state {
	case circuitClosed:
		if cb.failureCount >= cb.maxFailures {
			cb.state = circuitOpen
		}
	case circuitHalfOpen:
		cb.state = circuitOpen
		cb.successCount = 0
	}
}

func (cb *CircuitBreaker) recordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case circuitClosed:
		cb.failureCount = 0
	case circuitHalfOpen:
		cb.successCount++
		if cb.successCount >= cb.halfOpenMaxCalls {
			cb.state = circuitClosed
			cb.failureCount = 0
			cb.successCount = 0
		}
	}
}

// GuardedCache wraps a Store with a circuit breaker so a dead redis
// fails fast instead of stalling every read path behind timeouts.
type GuardedCache struct {
	store   Store
	breaker *CircuitBreaker
}

func NewGuardedCache(store Store, config *CircuitBreakerConfig) *GuardedCache {
	return &GuardedCache{
		store:   store,
		breaker: NewCircuitBreaker(config),
	}
}

// Get treats a cache miss as a healthy response; only transport
// failures trip the breaker.
func (g *GuardedCache) Get(key string, dest interface{}) error {
	var miss bool
	err := g.breaker.Execute(func() error {
		err := g.store.Get(key, dest)
		if errors.Is(err, ErrCacheMiss) {
			miss = true
			return nil
		}
		return err
	})
	if err != nil {
		return err
	}
	if miss {
		return ErrCacheMiss
	}
	return nil
}

func (g *GuardedCache) Set(key string, value interface{}, expiration time.Duration) error {
	return g.breaker.Execute(func() error {
		return g.store.Set(key, value, expiration)
	})
}

func (g *GuardedCache) Delete(key string) error {
	return g.breaker.Execute(func() error {
		return g.store.Delete(key)
	})
}

func (g *GuardedCache) DeletePattern(pattern string) error {
	return g.breaker.Execute(func() error {
		return g.store.DeletePattern(pattern)
	})
}
