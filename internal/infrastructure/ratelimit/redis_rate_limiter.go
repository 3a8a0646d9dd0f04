package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/sentinel/internal/domain/service"
	"github.com/turtacn/sentinel/pkg/errors"
	"github.com/turtacn/sentinel/pkg/logger"
)

// DefaultKeyPrefix namespaces limiter buckets in Redis.
const DefaultKeyPrefix = "sentinel:ratelimit"

// RedisRateLimiter shares one token bucket per client key across every replica.
// When Redis is unavailable and a fallback is configured, decisions are taken
// by the in-process limiter instead of failing the request.
type RedisRateLimiter struct {
	client    redis.UniversalClient
	logger    logger.Logger
	config    LimiterConfig
	keyPrefix string
	fallback  *MemoryRateLimiter
	now       func() time.Time
}

// RedisLimiterOption customises a RedisRateLimiter.
type RedisLimiterOption func(*RedisRateLimiter)

// WithKeyPrefix overrides DefaultKeyPrefix.
func WithKeyPrefix(prefix string) RedisLimiterOption {
	return func(rl *RedisRateLimiter) { rl.keyPrefix = prefix }
}

// WithLocalFallback enables the in-process limiter for Redis failures.
func WithLocalFallback() RedisLimiterOption {
	return func(rl *RedisRateLimiter) { rl.fallback = NewMemoryRateLimiter(rl.config) }
}

// Lua script for atomic token bucket operations.
// Returns {allowed, remaining, retry_ms}.
const tokenBucketLuaScript = `
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local requested = tonumber(ARGV[3])
local now = tonumber(ARGV[4])

local bucket = redis.call('HMGET', key, 'tokens', 'last_refill')
local tokens = tonumber(bucket[1]) or capacity
local last_refill = tonumber(bucket[2]) or now

-- rate is per second, elapsed in ms
local elapsed = math.max(now - last_refill, 0)
tokens = math.min(tokens + elapsed * rate / 1000, capacity)

local allowed = 0
local retry_ms = 0
if tokens >= requested then
    tokens = tokens - requested
    allowed = 1
else
    retry_ms = math.ceil((requested - tokens) / rate * 1000)
end

local full_ms = math.ceil((capacity - tokens) / rate * 1000)

redis.call('HSET', key, 'tokens', tostring(tokens), 'last_refill', tostring(now))
redis.call('PEXPIRE', key, full_ms + 60000)

return {allowed, math.floor(tokens), retry_ms}
`

// NewRedisRateLimiter creates a Redis-backed limiter.
func NewRedisRateLimiter(
	client redis.UniversalClient,
	cfg LimiterConfig,
	log logger.Logger,
	opts ...RedisLimiterOption,
) (*RedisRateLimiter, error) {
	if client == nil {
		return nil, errors.ErrInvalidConfig("redis client is required")
	}
	if log == nil {
		log = logger.NewNoopLogger()
	}

	rl := &RedisRateLimiter{
		client:    client,
		logger:    log,
		config:    cfg.withDefaults(),
		keyPrefix: DefaultKeyPrefix,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(rl)
	}

	log.Info(context.Background(), "Redis rate limiter initialized",
		logger.Int("requests_per_minute", rl.config.RequestsPerMinute),
		logger.Int("burst", rl.config.Burst),
		logger.Bool("local_fallback", rl.fallback != nil),
	)
	return rl, nil
}

// Allow implements service.RateLimitService
func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) (service.RateLimitDecision, error) {
	decision, err := rl.executeLuaScript(ctx, rl.buildKey(key), 1)
	if err != nil {
		if rl.fallback != nil {
			rl.logger.Warn(ctx, "Redis rate limiter unavailable, using local fallback",
				logger.String("key", key),
				logger.String("error", err.Error()),
			)
			return rl.fallback.Allow(ctx, key)
		}
		return service.RateLimitDecision{}, errors.ErrServiceUnavailable("rate limiter unavailable").WithCause(err)
	}
	return decision, nil
}

// Reset implements service.RateLimitService
func (rl *RedisRateLimiter) Reset(ctx context.Context, key string) error {
	redisKey := rl.buildKey(key)

	if err := rl.client.Del(ctx, redisKey).Err(); err != nil && err != redis.Nil {
		return errors.ErrServiceUnavailable("rate limiter unavailable").WithCause(err)
	}
	if rl.fallback != nil {
		_ = rl.fallback.Reset(ctx, key)
	}

	rl.logger.Debug(ctx, "Rate limit reset", logger.String("key", redisKey))
	return nil
}

// executeLuaScript runs the token bucket script for n requests.
func (rl *RedisRateLimiter) executeLuaScript(ctx context.Context, key string, n int) (service.RateLimitDecision, error) {
	nowMs := rl.now().UnixMilli()

	result, err := rl.client.Eval(ctx, tokenBucketLuaScript, []string{key},
		rl.config.Burst, rl.config.perSecond(), n, nowMs).Result()
	if err != nil {
		return service.RateLimitDecision{}, err
	}

	values, ok := result.([]interface{})
	if !ok || len(values) < 3 {
		return service.RateLimitDecision{}, fmt.Errorf("invalid Lua script result: %v", result)
	}
	allowed, ok1 := values[0].(int64)
	remaining, ok2 := values[1].(int64)
	retryMs, ok3 := values[2].(int64)
	if !ok1 || !ok2 || !ok3 {
		return service.RateLimitDecision{}, fmt.Errorf("invalid Lua script result: %v", values)
	}

	return service.RateLimitDecision{
		Allowed:    allowed == 1,
		Remaining:  int(remaining),
		RetryAfter: time.Duration(retryMs) * time.Millisecond,
	}, nil
}

func (rl *RedisRateLimiter) buildKey(key string) string {
	return fmt.Sprintf("%s:%s", rl.keyPrefix, key)
}
