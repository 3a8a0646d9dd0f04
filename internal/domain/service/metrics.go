// Package service defines the interfaces for domain services.
package service

import (
	"time"
)

// BackendOutcome labels how a backend call ended.
type BackendOutcome string

const (
	OutcomeSuccess  BackendOutcome = "success"
	OutcomeError    BackendOutcome = "error"
	OutcomeCanceled BackendOutcome = "canceled"
)

// Metrics defines the interface for collecting business metrics.
// This abstraction allows the application layer to remain independent of the specific monitoring implementation (e.g., Prometheus).
// Metrics 定义了收集业务指标的接口。
// 这种抽象使应用层能够独立于具体的监控实现（例如 Prometheus）。
type Metrics interface {
	// RecordBackendCall records the latency and outcome of one generative backend call.
	// RecordBackendCall 记录一次生成式后端调用的延迟与结果。
	RecordBackendCall(provider, operation string, outcome BackendOutcome, duration time.Duration)

	// RecordAssessment records a completed assessment, labelled by incident category and risk level.
	// RecordAssessment 记录一次完成的风险评估。
	RecordAssessment(category, riskLevel string, overallScore float64)

	// RecordAssessmentRejected records a backend response that failed schema validation.
	// RecordAssessmentRejected 记录未通过结构校验的后端响应。
	RecordAssessmentRejected(reason string)

	// RecordBriefing records a generated brief and whether the fallback text was used.
	// RecordBriefing 记录生成的简报以及是否使用了兜底文本。
	RecordBriefing(incidentCount int, fallback bool)

	// RecordRateLimitHit records an event when a rate limit is triggered.
	// RecordRateLimitHit 记录触发速率限制的事件。
	RecordRateLimitHit(backend, route string)

	// RecordHTTPRequest records one served HTTP request.
	// RecordHTTPRequest 记录一次 HTTP 请求。
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
}

// NoopMetrics discards every observation.
type NoopMetrics struct{}

func (NoopMetrics) RecordBackendCall(string, string, BackendOutcome, time.Duration) {}
func (NoopMetrics) RecordAssessment(string, string, float64)                        {}
func (NoopMetrics) RecordAssessmentRejected(string)                                 {}
func (NoopMetrics) RecordBriefing(int, bool)                                        {}
func (NoopMetrics) RecordRateLimitHit(string, string)                               {}
func (NoopMetrics) RecordHTTPRequest(string, string, int, time.Duration)            {}
