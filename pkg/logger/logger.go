// Package logger provides the structured logging contract for the Sentinel service.
// The production implementation lives in internal/infrastructure/monitoring and is backed by zap.
package logger

import (
	"context"
	"time"
)

// Logger defines the interface for structured logging
type Logger interface {
	// Debug logs a debug message
	Debug(ctx context.Context, msg string, fields ...Fields)

	// Info logs an informational message
	Info(ctx context.Context, msg string, fields ...Fields)

	// Warn logs a warning message
	Warn(ctx context.Context, msg string, fields ...Fields)

	// Error logs an error message
	Error(ctx context.Context, msg string, err error, fields ...Fields)

	// Fatal logs a fatal message and exits the application
	Fatal(ctx context.Context, msg string, err error, fields ...Fields)

	// WithFields creates a new logger with additional fields
	WithFields(fields Fields) Logger

	// ForContext returns the request-scoped logger stored in ctx, or the receiver
	ForContext(ctx context.Context) Logger
}

// Fields is a set of key-value pairs attached to a log entry
type Fields map[string]interface{}

// String creates a string field
func String(key string, value string) Fields {
	return Fields{key: value}
}

// Int creates an integer field
func Int(key string, value int) Fields {
	return Fields{key: value}
}

// Int64 creates an int64 field
func Int64(key string, value int64) Fields {
	return Fields{key: value}
}

// Float64 creates a float64 field
func Float64(key string, value float64) Fields {
	return Fields{key: value}
}

// Bool creates a boolean field
func Bool(key string, value bool) Fields {
	return Fields{key: value}
}

// Duration creates a duration field rendered as a string
func Duration(key string, value time.Duration) Fields {
	return Fields{key: value.String()}
}

// Any creates a field with any type
func Any(key string, value interface{}) Fields {
	return Fields{key: value}
}
