// Package ratelimit provides rate limiting implementations.
package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/turtacn/sentinel/internal/domain/service"
	"github.com/turtacn/sentinel/pkg/constants"
)

// LimiterConfig holds the per-client budget shared by every limiter implementation.
type LimiterConfig struct {
	// RequestsPerMinute is the sustained refill rate
	RequestsPerMinute int
	// Burst is the bucket capacity
	Burst int
	// IdleExpiry evicts buckets of clients that stopped sending requests
	IdleExpiry time.Duration
}

func (c LimiterConfig) withDefaults() LimiterConfig {
	if c.RequestsPerMinute <= 0 {
		c.RequestsPerMinute = constants.DefaultRateLimitPerMinute
	}
	if c.Burst <= 0 {
		c.Burst = constants.DefaultRateLimitBurst
	}
	if c.IdleExpiry <= 0 {
		c.IdleExpiry = constants.RateLimitIdleExpiry
	}
	return c
}

// perSecond is the refill rate in tokens per second.
func (c LimiterConfig) perSecond() float64 {
	return float64(c.RequestsPerMinute) / 60.0
}

// MemoryRateLimiter keeps one x/time/rate token bucket per client key in an expiring cache.
// It is safe for concurrent use.
type MemoryRateLimiter struct {
	config  LimiterConfig
	buckets *cache.Cache
	mu      sync.Mutex
	now     func() time.Time
}

// NewMemoryRateLimiter creates an in-process limiter.
func NewMemoryRateLimiter(cfg LimiterConfig) *MemoryRateLimiter {
	cfg = cfg.withDefaults()
	return &MemoryRateLimiter{
		config:  cfg,
		buckets: cache.New(cfg.IdleExpiry, cfg.IdleExpiry*2),
		now:     time.Now,
	}
}

// Allow implements service.RateLimitService
func (l *MemoryRateLimiter) Allow(ctx context.Context, key string) (service.RateLimitDecision, error) {
	limiter := l.bucket(key)
	now := l.now()

	r := limiter.ReserveN(now, 1)
	if !r.OK() {
		return service.RateLimitDecision{Allowed: false}, nil
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return service.RateLimitDecision{Allowed: false, RetryAfter: delay}, nil
	}

	remaining := int(math.Floor(limiter.TokensAt(now)))
	if remaining < 0 {
		remaining = 0
	}
	return service.RateLimitDecision{Allowed: true, Remaining: remaining}, nil
}

// Reset implements service.RateLimitService
func (l *MemoryRateLimiter) Reset(ctx context.Context, key string) error {
	l.buckets.Delete(key)
	return nil
}

// Len reports the number of tracked clients.
func (l *MemoryRateLimiter) Len() int {
	return l.buckets.ItemCount()
}

func (l *MemoryRateLimiter) bucket(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v, ok := l.buckets.Get(key); ok {
		limiter := v.(*rate.Limiter)
		// Touch so active clients are not evicted
		l.buckets.SetDefault(key, limiter)
		return limiter
	}
	limiter := rate.NewLimiter(rate.Limit(l.config.perSecond()), l.config.Burst)
	l.buckets.SetDefault(key, limiter)
	return limiter
}
