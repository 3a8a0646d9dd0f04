// Package middleware provides the gin middleware chain of the Sentinel HTTP API.
package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/turtacn/sentinel/internal/application/dto"
	"github.com/turtacn/sentinel/pkg/constants"
	"github.com/turtacn/sentinel/pkg/errors"
	"github.com/turtacn/sentinel/pkg/logger"
)

// RequestID propagates X-Request-ID, generating a UUID when the client sent none.
// The id is stored on the gin context and on the request context for the logger.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(string(constants.ContextKeyRequestID), requestID)
		ctx := context.WithValue(c.Request.Context(), constants.ContextKeyRequestID, requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header(constants.HeaderRequestID, requestID)

		c.Next()
	}
}

// Recovery turns a panic into a server_error response.
func Recovery(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error(c.Request.Context(), "Panic recovered", fmt.Errorf("panic: %v", rec),
					logger.String("path", c.Request.URL.Path),
				)
				dto.AbortWithError(c, errors.ErrServerError("panic recovered"))
			}
		}()
		c.Next()
	}
}

// Logging writes one entry per request. 5xx and 429 responses are logged as errors.
func Logging(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		fields := logger.Fields{
			"method":     c.Request.Method,
			"route":      route,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		}

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			if errors.ShouldLogError(err) {
				log.Error(c.Request.Context(), "Request failed", err, fields)
				return
			}
			fields["error"] = err.Error()
			log.Warn(c.Request.Context(), "Request rejected", fields)
			return
		}
		log.Info(c.Request.Context(), "Request processed", fields)
	}
}
