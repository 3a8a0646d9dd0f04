package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/turtacn/sentinel/internal/domain/service"
	"github.com/turtacn/sentinel/internal/infrastructure/monitoring"
	"github.com/turtacn/sentinel/pkg/constants"
	"github.com/turtacn/sentinel/pkg/logger"
)

// Observability starts a server span per request and records the request count and
// latency. Metric labels use the route template (c.FullPath()) to keep cardinality low.
// Observability 为每个请求创建服务端 Span，并记录请求数与延迟指标。
func Observability(tracing *monitoring.TracingManager, metrics service.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		route := c.FullPath()
		if route == "" {
			route = "not_found"
		}

		ctx := tracing.ExtractTraceContext(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		ctx, span := tracing.StartSpan(ctx, c.Request.Method+" "+route, logger.Fields{
			"http.method": c.Request.Method,
			"http.route":  route,
		}, trace.WithSpanKind(trace.SpanKindServer))

		if traceID := tracing.GetTraceID(ctx); traceID != "" {
			c.Set(string(constants.ContextKeyTraceID), traceID)
			ctx = context.WithValue(ctx, constants.ContextKeyTraceID, traceID)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		metrics.RecordHTTPRequest(c.Request.Method, route, status, time.Since(start))

		span.SetAttributes(
			attribute.Int("http.status_code", status),
			attribute.String("http.client_ip", c.ClientIP()),
		)
		var err error
		if len(c.Errors) > 0 && status >= 500 {
			err = c.Errors.Last().Err
		}
		tracing.EndSpan(span, err)
	}
}
