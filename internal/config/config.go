package config

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/turtacn/sentinel/pkg/constants"
	"github.com/turtacn/sentinel/pkg/errors"
)

// Config holds the entire service configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	GenAI     GenAIConfig     `mapstructure:"genai"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	Feed      FeedConfig      `mapstructure:"feed"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// IsProduction reports whether the server runs in production mode.
func (s ServerConfig) IsProduction() bool {
	return strings.EqualFold(s.Environment, constants.EnvironmentProduction)
}

// GenAIConfig configures the generative backend. APIKey is read from the process
// environment and never logged.
type GenAIConfig struct {
	Provider       string        `mapstructure:"provider"`
	APIKey         string        `mapstructure:"api_key"`
	Model          string        `mapstructure:"model"`
	BaseURL        string        `mapstructure:"base_url"` // OpenAI-compatible endpoints only
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxConcurrency int           `mapstructure:"max_concurrency"`
}

// ResolvedModel returns the configured model or the provider's default.
func (g GenAIConfig) ResolvedModel() string {
	if g.Model != "" {
		return g.Model
	}
	if constants.BackendProvider(g.Provider) == constants.ProviderOpenAI {
		return constants.DefaultOpenAIModel
	}
	return constants.DefaultGeminiModel
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type RateLimitConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	Backend           string `mapstructure:"backend"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute"`
	Burst             int    `mapstructure:"burst"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type TracingConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	ServiceName    string  `mapstructure:"service_name"`
	Environment    string  `mapstructure:"environment"`
	SamplingRate   float64 `mapstructure:"sampling_rate"`
}

// FeedConfig points at an optional YAML incident feed. An empty path serves the built-in feed.
type FeedConfig struct {
	Path string `mapstructure:"path"`
}

// Validate checks for essential configuration values.
func (c *Config) Validate() error {
	switch constants.BackendProvider(c.GenAI.Provider) {
	case constants.ProviderGemini, constants.ProviderOpenAI:
	default:
		return errors.ErrInvalidConfig("unknown genai provider: " + c.GenAI.Provider)
	}
	if strings.TrimSpace(c.GenAI.APIKey) == "" {
		return errors.ErrInvalidConfig("genai api key is not set (SENTINEL_GENAI_API_KEY, API_KEY, GEMINI_API_KEY or OPENAI_API_KEY)")
	}
	if c.GenAI.Timeout <= 0 {
		return errors.ErrInvalidConfig("genai.timeout must be positive")
	}
	if c.GenAI.MaxConcurrency <= 0 {
		return errors.ErrInvalidConfig("genai.max_concurrency must be positive")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.ErrInvalidConfig(fmt.Sprintf("server.port out of range: %d", c.Server.Port))
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return errors.ErrInvalidConfig("invalid log.level: " + c.Log.Level).WithCause(err)
	}
	if c.RateLimit.Enabled {
		switch constants.RateLimitBackend(c.RateLimit.Backend) {
		case constants.RateLimitBackendMemory:
		case constants.RateLimitBackendRedis:
			if c.Redis.Address == "" {
				return errors.ErrInvalidConfig("redis.address is required for the redis rate limiter")
			}
		default:
			return errors.ErrInvalidConfig("unknown rate_limit.backend: " + c.RateLimit.Backend)
		}
		if c.RateLimit.RequestsPerMinute <= 0 || c.RateLimit.Burst <= 0 {
			return errors.ErrInvalidConfig("rate_limit.requests_per_minute and rate_limit.burst must be positive")
		}
	}
	if c.Tracing.Enabled && (c.Tracing.SamplingRate < 0 || c.Tracing.SamplingRate > 1) {
		return errors.ErrInvalidConfig("tracing.sampling_rate must be within [0,1]")
	}
	return nil
}
