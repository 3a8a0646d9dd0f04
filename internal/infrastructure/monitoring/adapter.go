// Package monitoring provides adapters to connect the domain's metrics interface with a concrete implementation like Prometheus.
package monitoring

import (
	"time"

	"github.com/turtacn/sentinel/internal/domain/service"
)

// MetricsAdapter implements the domain's service.Metrics interface, sending metrics to a Prometheus backend.
// This adapter translates the domain-specific metric calls into the appropriate Prometheus client calls.
// MetricsAdapter 实现了域的 service.Metrics 接口，将指标发送到 Prometheus 后端。
// 此适配器将特定于域的指标调用转换为适当的 Prometheus 客户端调用。
type MetricsAdapter struct {
	metrics *Metrics
}

// NewMetricsAdapter creates a new adapter that wraps a concrete Prometheus Metrics object,
// satisfying the domain's Metrics interface.
// NewMetricsAdapter 创建一个包装具体 Prometheus Metrics 对象的新适配器，
// 满足域的 Metrics 接口。
func NewMetricsAdapter(metrics *Metrics) service.Metrics {
	return &MetricsAdapter{metrics: metrics}
}

// RecordBackendCall delegates the call to the underlying Prometheus Metrics object.
// RecordBackendCall 将调用委托给底层的 Prometheus Metrics 对象。
func (a *MetricsAdapter) RecordBackendCall(provider, operation string, outcome service.BackendOutcome, duration time.Duration) {
	a.metrics.RecordBackendCall(provider, operation, string(outcome), duration)
}

// RecordAssessment delegates the call to the underlying Prometheus Metrics object.
func (a *MetricsAdapter) RecordAssessment(category, riskLevel string, overallScore float64) {
	a.metrics.RecordAssessment(category, riskLevel, overallScore)
}

// RecordAssessmentRejected delegates the call to the underlying Prometheus Metrics object.
func (a *MetricsAdapter) RecordAssessmentRejected(reason string) {
	a.metrics.RecordAssessmentRejected(reason)
}

// RecordBriefing delegates the call to the underlying Prometheus Metrics object.
func (a *MetricsAdapter) RecordBriefing(incidentCount int, fallback bool) {
	a.metrics.RecordBriefing(fallback)
}

// RecordRateLimitHit delegates the call to the underlying Prometheus Metrics object.
// RecordRateLimitHit 将调用委托给底层的 Prometheus Metrics 对象。
func (a *MetricsAdapter) RecordRateLimitHit(backend, route string) {
	a.metrics.RecordRateLimitHit(backend, route)
}

// RecordHTTPRequest delegates the call to the underlying Prometheus Metrics object.
func (a *MetricsAdapter) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	a.metrics.RecordHTTPRequest(method, route, status, duration)
}
