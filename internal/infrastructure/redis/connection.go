// Package redis provides Redis connection management for the shared rate limiter.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/sentinel/internal/config"
	"github.com/turtacn/sentinel/pkg/logger"
)

const (
	defaultPoolSize    = 10
	defaultDialTimeout = 5 * time.Second
	defaultIOTimeout   = 3 * time.Second
	pingTimeout        = 5 * time.Second
)

// Connection manages the Redis client lifecycle.
type Connection struct {
	config *config.RedisConfig
	client redis.UniversalClient
	logger logger.Logger
}

// NewConnection creates a connection manager. Call Connect before Client.
func NewConnection(cfg *config.RedisConfig, log logger.Logger) *Connection {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &Connection{config: cfg, logger: log}
}

// Connect dials Redis and verifies connectivity with PING.
func (c *Connection) Connect(ctx context.Context) error {
	if c.client != nil {
		c.logger.Warn(ctx, "Redis connection already initialized")
		return nil
	}

	poolSize := c.config.PoolSize
	if poolSize <= 0 {
		poolSize = defaultPoolSize
	}

	client := redis.NewClient(&redis.Options{
		Addr:         c.config.Address,
		Password:     c.config.Password,
		DB:           c.config.DB,
		PoolSize:     poolSize,
		DialTimeout:  defaultDialTimeout,
		ReadTimeout:  defaultIOTimeout,
		WriteTimeout: defaultIOTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		c.logger.Error(ctx, "Redis ping failed", err, logger.String("addr", c.config.Address))
		_ = client.Close()
		return fmt.Errorf("redis ping failed: %w", err)
	}

	c.client = client
	c.logger.Info(ctx, "Redis connection established",
		logger.String("addr", c.config.Address),
		logger.Int("db", c.config.DB),
		logger.Int("pool_size", poolSize),
	)
	return nil
}

// Client returns the underlying client, or nil before Connect.
func (c *Connection) Client() redis.UniversalClient {
	return c.client
}

// Ping checks that Redis is reachable. It backs the readiness probe.
func (c *Connection) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("redis client not initialized")
	}
	return c.client.Ping(ctx).Err()
}

// Close releases the connection pool.
func (c *Connection) Close() error {
	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	if err != nil {
		c.logger.Error(context.Background(), "Failed to close Redis connection", err)
		return err
	}
	c.logger.Info(context.Background(), "Redis connection closed")
	return nil
}
