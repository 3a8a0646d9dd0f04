package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appService "github.com/turtacn/sentinel/internal/application/service"
	"github.com/turtacn/sentinel/internal/config"
	"github.com/turtacn/sentinel/internal/domain/service/mocks"
	"github.com/turtacn/sentinel/internal/infrastructure/monitoring"
	"github.com/turtacn/sentinel/internal/infrastructure/persistence/memory"
	"github.com/turtacn/sentinel/internal/infrastructure/ratelimit"
	"github.com/turtacn/sentinel/internal/interfaces/http/handlers"
	"github.com/turtacn/sentinel/pkg/constants"
	"github.com/turtacn/sentinel/pkg/errors"
	"github.com/turtacn/sentinel/pkg/logger"
)

const redSeaAnalysis = `{
  "overallScore": 87,
  "geopoliticalFactor": 92,
  "infrastructureVulnerability": 70,
  "economicStability": 40,
  "summary": "Severe maritime disruption.",
  "recommendations": ["Reroute via Cape of Good Hope", "Increase inventory buffers"]
}`

type testServer struct {
	router  *Router
	backend *mocks.MockGenerativeBackend
}

func newTestServer(t *testing.T, rateLimit config.RateLimitConfig) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server:    config.ServerConfig{Environment: constants.EnvironmentProduction, AllowedOrigins: []string{"*"}},
		RateLimit: rateLimit,
	}
	log := logger.NewNoopLogger()

	reg := prometheus.NewRegistry()
	metrics := monitoring.NewMetricsAdapter(monitoring.NewMetrics(reg))

	backend := new(mocks.MockGenerativeBackend)
	backend.On("Name").Return("gemini").Maybe()

	incidents, regions, err := memory.NewRepositories(context.Background(), "", log)
	require.NoError(t, err)

	svc := appService.NewIntelligenceAppService(incidents, regions,
		appService.NewRiskAssessmentService(backend, metrics, log),
		appService.NewBriefingService(backend, metrics, log),
		2, log)

	deps := Dependencies{
		Tracing:         monitoring.NewNoopTracingManager(),
		Metrics:         metrics,
		Gatherer:        reg,
		HealthHandler:   handlers.NewHealthHandler("gemini", nil, log),
		IncidentHandler: handlers.NewIncidentHandler(svc, log),
	}
	if rateLimit.Enabled {
		deps.RateLimiter = ratelimit.NewMemoryRateLimiter(ratelimit.LimiterConfig{
			RequestsPerMinute: rateLimit.RequestsPerMinute,
			Burst:             rateLimit.Burst,
		})
	}

	return &testServer{router: NewRouter(cfg, log, deps), backend: backend}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.Engine().ServeHTTP(w, req)
	return w
}

func TestRouter_AssessFeedIncident(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{})
	s.backend.On("GenerateJSON", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return bytes.Contains([]byte(prompt), []byte("Disruption in Red Sea Shipping Lanes"))
	}), mock.Anything).Return(redSeaAnalysis, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/incidents/1/analysis", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var env struct {
		Success bool `json:"success"`
		Data    struct {
			IncidentID string `json:"incidentId"`
			Analysis   struct {
				OverallScore    float64  `json:"overallScore"`
				Recommendations []string `json:"recommendations"`
			} `json:"analysis"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, "1", env.Data.IncidentID)
	assert.Equal(t, 87.0, env.Data.Analysis.OverallScore)
	assert.Len(t, env.Data.Analysis.Recommendations, 2)
	assert.NotEmpty(t, w.Header().Get(constants.HeaderRequestID))

	metrics := s.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), "sentinel_http_requests_total")
	assert.Contains(t, metrics.Body.String(), "sentinel_assessments_total")

	s.backend.AssertExpectations(t)
}

func TestRouter_AssessRejectsMalformedBackendOutput(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{})
	s.backend.On("GenerateJSON", mock.Anything, mock.Anything, mock.Anything).
		Return(`{"overallScore": 87}`, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/incidents/1/analysis", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), string(errors.CodeBackendError))
}

func TestRouter_BriefFallback(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{})
	s.backend.On("GenerateText", mock.Anything, mock.Anything).Return("   ", nil).Once()

	w := s.do(http.MethodPost, "/api/v1/briefings", `{"ids":["1","3"]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), constants.BriefingFallbackText)
	assert.Contains(t, w.Body.String(), `"fallback":true`)
}

func TestRouter_FeedAndNotFound(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{})

	w := s.do(http.MethodGet, "/api/v1/incidents", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Civil Unrest in Southeast Asia Tech Hub")
	assert.NotEmpty(t, w.Header().Get("ETag"))

	w = s.do(http.MethodGet, "/api/v1/incidents/99", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/v1/nowhere", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), string(errors.CodeNotFound))

	w = s.do(http.MethodGet, "/live", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_RateLimitAppliesToAPIOnly(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{Enabled: true, Backend: "memory", RequestsPerMinute: 1, Burst: 2})

	for i := 0; i < 2; i++ {
		w := s.do(http.MethodGet, "/api/v1/regions", "")
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := s.do(http.MethodGet, "/api/v1/regions", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get(constants.HeaderRetryAfter))

	w = s.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
