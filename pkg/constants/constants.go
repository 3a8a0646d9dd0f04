// Package constants defines system-wide constants for the Sentinel risk-intelligence service.
// This package provides type-safe constant definitions used across all modules.
package constants

import "time"

// ================================================================================
// Service Identity
// ================================================================================

const (
	// ServiceName is used for tracing resources and metric namespaces
	ServiceName = "sentinel"

	// ServiceVersion is reported by the health endpoints
	ServiceVersion = "1.0.0"

	// EnvPrefix is the prefix for environment variable overrides (SENTINEL_SERVER_PORT, ...)
	EnvPrefix = "SENTINEL"
)

// ================================================================================
// Generative Backend Constants
// ================================================================================

// BackendProvider identifies a generative-AI backend implementation
type BackendProvider string

const (
	// ProviderGemini uses the Google Gemini API
	ProviderGemini BackendProvider = "gemini"

	// ProviderOpenAI uses an OpenAI-compatible chat completions API
	ProviderOpenAI BackendProvider = "openai"
)

const (
	// DefaultGeminiModel is the model the dashboard was built against
	DefaultGeminiModel = "gemini-3-flash-preview"

	// DefaultOpenAIModel is used when provider is openai and no model is configured
	DefaultOpenAIModel = "gpt-4o-mini"

	// DefaultBackendTimeout bounds a single backend request
	DefaultBackendTimeout = 60 * time.Second

	// DefaultMaxConcurrency bounds batch assessment fan-out
	DefaultMaxConcurrency = 4
)

// BackendOperation labels the two backend capabilities
type BackendOperation string

const (
	// OperationStructured is schema-constrained JSON generation
	OperationStructured BackendOperation = "structured"

	// OperationText is free-text generation
	OperationText BackendOperation = "text"
)

// BriefingFallbackText is substituted when the backend returns no text
const BriefingFallbackText = "Unable to generate brief at this time."

// ================================================================================
// Score Bounds
// ================================================================================

const (
	// MinScore is the lowest valid risk score
	MinScore = 0.0

	// MaxScore is the highest valid risk score
	MaxScore = 100.0
)

// ================================================================================
// Log Level Constants
// ================================================================================

// LogLevel represents logging severity levels
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// ================================================================================
// Context Keys
// ================================================================================

// ContextKey is used for storing values in context.Context
type ContextKey string

const (
	// ContextKeyRequestID stores the unique request identifier
	ContextKeyRequestID ContextKey = "request_id"

	// ContextKeyTraceID stores the OpenTelemetry trace ID
	ContextKeyTraceID ContextKey = "trace_id"

	// ContextKeyLogger stores a request-scoped logger
	ContextKeyLogger ContextKey = "logger"

	// ContextKeyETagPayload stores the response data the ETag is computed from
	ContextKeyETagPayload ContextKey = "etag_payload"
)

// ================================================================================
// HTTP Constants
// ================================================================================

const (
	// HeaderRequestID carries the request identifier in and out
	HeaderRequestID = "X-Request-ID"

	// HeaderRateLimitRemaining reports remaining requests in the window
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"

	// HeaderRateLimitLimit reports the bucket capacity
	HeaderRateLimitLimit = "X-RateLimit-Limit"

	// HeaderRetryAfter tells a throttled client when to retry, in seconds
	HeaderRetryAfter = "Retry-After"

	// EnvironmentProduction disables pprof and switches gin to release mode
	EnvironmentProduction = "production"
)

// ================================================================================
// Rate Limit Constants
// ================================================================================

// RateLimitBackend selects the limiter implementation
type RateLimitBackend string

const (
	RateLimitBackendMemory RateLimitBackend = "memory"
	RateLimitBackendRedis  RateLimitBackend = "redis"
)

const (
	// DefaultRateLimitPerMinute is the default request budget per client
	DefaultRateLimitPerMinute = 60

	// DefaultRateLimitBurst is the default bucket capacity
	DefaultRateLimitBurst = 10

	// RateLimitIdleExpiry drops in-memory limiters for clients idle this long
	RateLimitIdleExpiry = 10 * time.Minute
)
