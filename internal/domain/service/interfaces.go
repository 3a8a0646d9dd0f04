package service

import (
	"context"

	"github.com/turtacn/sentinel/internal/domain/models"
)

//go:generate mockery --name GenerativeBackend --output mocks --outpkg mocks
// GenerativeBackend is the capability the risk clients need from a generative-AI service.
// Implementations must be safe for concurrent use and must honour ctx cancellation.
// GenerativeBackend 定义了风险客户端对生成式 AI 服务所需的能力。
type GenerativeBackend interface {
	// Name identifies the provider for logs and metrics (e.g. "gemini").
	// Name 返回提供者名称。
	Name() string

	// GenerateJSON asks for a response emitted as serialized JSON conforming to schema and
	// returns the raw response body. A non-nil error means no usable response was produced.
	// GenerateJSON 请求按 schema 生成 JSON，并返回原始响应体。
	GenerateJSON(ctx context.Context, prompt string, schema *ResponseSchema) (string, error)

	// GenerateText asks for free text. An empty string with a nil error is a successful
	// call that produced no text.
	// GenerateText 请求自由文本；空字符串且 err 为 nil 表示调用成功但无输出。
	GenerateText(ctx context.Context, prompt string) (string, error)
}

//go:generate mockery --name RiskAssessor --output mocks --outpkg mocks
// RiskAssessor produces a structured risk analysis for a single incident.
// RiskAssessor 为单个事件生成结构化风险分析。
type RiskAssessor interface {
	// Assess returns a complete, schema-valid analysis or a backend_error. It never caches.
	// Assess 返回完整且通过校验的分析结果，或 backend_error；不做缓存。
	Assess(ctx context.Context, incident models.SecurityIncident) (*models.RiskAnalysis, error)
}

//go:generate mockery --name Briefer --output mocks --outpkg mocks
// Briefer produces an executive brief over a set of incidents.
// Briefer 基于一组事件生成高管简报。
type Briefer interface {
	// Brief returns backend text verbatim, or the fallback text when the backend
	// succeeded with no output. Backend failures are returned as backend_error.
	// Brief 原样返回后端文本；后端成功但无输出时返回兜底文本。
	Brief(ctx context.Context, incidents []models.SecurityIncident) (string, error)
}
