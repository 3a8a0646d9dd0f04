package app

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/sentinel/internal/config"
	"github.com/turtacn/sentinel/internal/infrastructure/monitoring"
	"github.com/turtacn/sentinel/internal/infrastructure/ratelimit"
	"github.com/turtacn/sentinel/pkg/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		GenAI: config.GenAIConfig{
			Provider:       "openai",
			APIKey:         "sk-test-key",
			BaseURL:        "http://127.0.0.1:1/v1",
			Timeout:        time.Second,
			MaxConcurrency: 2,
		},
		RateLimit: config.RateLimitConfig{RequestsPerMinute: 60, Burst: 5},
	}
}

func TestNewServices(t *testing.T) {
	svc, err := NewServices(context.Background(), testConfig(), monitoring.NewNoopTracingManager(), nil, logger.NewNoopLogger())
	require.NoError(t, err)
	assert.Equal(t, "openai", svc.Backend.Name())

	incidents, err := svc.Intelligence.ListIncidents(context.Background())
	require.NoError(t, err)
	assert.Len(t, incidents, 3)
}

func TestNewServices_UnknownProvider(t *testing.T) {
	cfg := testConfig()
	cfg.GenAI.Provider = "bard"
	_, err := NewServices(context.Background(), cfg, monitoring.NewNoopTracingManager(), nil, logger.NewNoopLogger())
	assert.Error(t, err)
}

func TestNewRateLimiter(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()

	limiter, conn, err := NewRateLimiter(ctx, cfg, logger.NewNoopLogger())
	require.NoError(t, err)
	assert.Nil(t, limiter)
	assert.Nil(t, conn)

	cfg.RateLimit.Enabled = true
	cfg.RateLimit.Backend = "memory"
	limiter, conn, err = NewRateLimiter(ctx, cfg, logger.NewNoopLogger())
	require.NoError(t, err)
	assert.IsType(t, &ratelimit.MemoryRateLimiter{}, limiter)
	assert.Nil(t, conn)

	mr := miniredis.RunT(t)
	cfg.RateLimit.Backend = "redis"
	cfg.Redis.Address = mr.Addr()
	limiter, conn, err = NewRateLimiter(ctx, cfg, logger.NewNoopLogger())
	require.NoError(t, err)
	require.NotNil(t, conn)
	defer conn.Close()
	assert.IsType(t, &ratelimit.RedisRateLimiter{}, limiter)

	d, err := limiter.Allow(ctx, "198.51.100.7")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}
