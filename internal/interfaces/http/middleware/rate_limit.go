package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/sentinel/internal/application/dto"
	"github.com/turtacn/sentinel/internal/config"
	"github.com/turtacn/sentinel/internal/domain/service"
	"github.com/turtacn/sentinel/pkg/constants"
	"github.com/turtacn/sentinel/pkg/logger"
)

// RateLimit throttles clients by IP. Limiter failures fail open: the request
// proceeds and the failure is logged.
func RateLimit(limiter service.RateLimitService, cfg *config.RateLimitConfig, metrics service.Metrics, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || !cfg.Enabled {
			c.Next()
			return
		}

		decision, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Error(c.Request.Context(), "Rate limiter failed", err, logger.String("client_ip", c.ClientIP()))
			c.Next()
			return
		}

		c.Header(constants.HeaderRateLimitLimit, strconv.Itoa(cfg.Burst))
		c.Header(constants.HeaderRateLimitRemaining, strconv.Itoa(decision.Remaining))

		if !decision.Allowed {
			route := c.FullPath()
			metrics.RecordRateLimitHit(cfg.Backend, route)
			log.Warn(c.Request.Context(), "Rate limit exceeded",
				logger.String("client_ip", c.ClientIP()),
				logger.String("route", route),
				logger.Duration("retry_after", decision.RetryAfter),
			)

			retry := int(decision.RetryAfter.Seconds() + 0.5)
			if retry < 1 {
				retry = 1
			}
			c.Header(constants.HeaderRetryAfter, strconv.Itoa(retry))
			resp := dto.RateLimitExceededResponse(decision.RetryAfter, c.GetString(string(constants.ContextKeyTraceID)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, resp)
			return
		}

		c.Next()
	}
}
