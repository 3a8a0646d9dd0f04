package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/turtacn/sentinel/pkg/constants"
)

// Metrics manages the Prometheus metrics.
type Metrics struct {
	BackendRequests      *prometheus.CounterVec
	BackendLatency       *prometheus.HistogramVec
	Assessments          *prometheus.CounterVec
	AssessmentScores     *prometheus.HistogramVec
	AssessmentRejections *prometheus.CounterVec
	Briefings            *prometheus.CounterVec
	RateLimitHits        *prometheus.CounterVec
	HTTPRequests         *prometheus.CounterVec
	HTTPLatency          *prometheus.HistogramVec
}

// NewMetrics creates the Prometheus metrics and registers them on reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	ns := constants.ServiceName
	return &Metrics{
		BackendRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "backend_requests_total",
				Help:      "Total number of generative backend requests.",
			},
			[]string{"provider", "operation", "outcome"},
		),
		BackendLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: ns,
				Name:      "backend_request_duration_seconds",
				Help:      "Latency of generative backend requests.",
				Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
			},
			[]string{"provider", "operation"},
		),
		Assessments: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "assessments_total",
				Help:      "Total number of completed risk assessments.",
			},
			[]string{"category", "risk_level"},
		),
		AssessmentScores: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: ns,
				Name:      "assessment_overall_score",
				Help:      "Distribution of overall risk scores.",
				Buckets:   prometheus.LinearBuckets(10, 10, 10),
			},
			[]string{"category"},
		),
		AssessmentRejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "assessment_rejections_total",
				Help:      "Total number of backend responses rejected by schema validation.",
			},
			[]string{"reason"},
		),
		Briefings: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "briefings_total",
				Help:      "Total number of generated briefs.",
			},
			[]string{"fallback"},
		),
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "rate_limit_hits_total",
				Help:      "Total number of rate limit hits.",
			},
			[]string{"backend", "route"},
		),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: ns,
				Name:      "http_request_duration_seconds",
				Help:      "Latency of HTTP requests.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// RecordBackendCall records metrics for one backend request.
func (m *Metrics) RecordBackendCall(provider, operation, outcome string, duration time.Duration) {
	m.BackendRequests.WithLabelValues(provider, operation, outcome).Inc()
	m.BackendLatency.WithLabelValues(provider, operation).Observe(duration.Seconds())
}

// RecordAssessment records a completed assessment.
func (m *Metrics) RecordAssessment(category, riskLevel string, overallScore float64) {
	m.Assessments.WithLabelValues(category, riskLevel).Inc()
	m.AssessmentScores.WithLabelValues(category).Observe(overallScore)
}

// RecordAssessmentRejected records a rejected backend response.
func (m *Metrics) RecordAssessmentRejected(reason string) {
	m.AssessmentRejections.WithLabelValues(reason).Inc()
}

// RecordBriefing records a generated brief.
func (m *Metrics) RecordBriefing(fallback bool) {
	m.Briefings.WithLabelValues(strconv.FormatBool(fallback)).Inc()
}

// RecordRateLimitHit records a rate limit hit.
func (m *Metrics) RecordRateLimitHit(backend, route string) {
	m.RateLimitHits.WithLabelValues(backend, route).Inc()
}

// RecordHTTPRequest records one served request.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}
