package mocks

import (
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/turtacn/sentinel/internal/domain/service"
)

// MockMetrics is a mock implementation of service.Metrics
type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) RecordBackendCall(provider, operation string, outcome service.BackendOutcome, duration time.Duration) {
	m.Called(provider, operation, outcome, duration)
}

func (m *MockMetrics) RecordAssessment(category, riskLevel string, overallScore float64) {
	m.Called(category, riskLevel, overallScore)
}

func (m *MockMetrics) RecordAssessmentRejected(reason string) {
	m.Called(reason)
}

func (m *MockMetrics) RecordBriefing(incidentCount int, fallback bool) {
	m.Called(incidentCount, fallback)
}

func (m *MockMetrics) RecordRateLimitHit(backend, route string) {
	m.Called(backend, route)
}

func (m *MockMetrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	m.Called(method, route, status, duration)
}
