package service

import (
	"context"
	"time"
)

// RateLimitDecision is the result of a single rate limit check.
type RateLimitDecision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

//go:generate mockery --name RateLimitService --output mocks --outpkg mocks
// RateLimitService checks request budgets per client key.
// Implementations exist for in-process and Redis-backed token buckets.
// RateLimitService 按客户端键检查请求配额。
type RateLimitService interface {
	// Allow consumes one token for key and reports whether the request may proceed.
	// Allow 为 key 消耗一个令牌，并返回请求是否被允许。
	Allow(ctx context.Context, key string) (RateLimitDecision, error)

	// Reset clears the bucket for key.
	// Reset 清除 key 对应的令牌桶。
	Reset(ctx context.Context, key string) error
}
