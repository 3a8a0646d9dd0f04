// Package service provides application-level services that orchestrate domain services and repositories
package service

import (
	"context"
	"time"

	"github.com/turtacn/sentinel/internal/domain/models"
	domainService "github.com/turtacn/sentinel/internal/domain/service"
	"github.com/turtacn/sentinel/pkg/errors"
	"github.com/turtacn/sentinel/pkg/logger"
)

// riskAssessmentService is the concrete implementation of domainService.RiskAssessor
type riskAssessmentService struct {
	backend domainService.GenerativeBackend
	metrics domainService.Metrics
	logger  logger.Logger
}

// NewRiskAssessmentService creates a RiskAssessor that sends every assessment to backend.
func NewRiskAssessmentService(
	backend domainService.GenerativeBackend,
	metrics domainService.Metrics,
	log logger.Logger,
) domainService.RiskAssessor {
	if metrics == nil {
		metrics = domainService.NoopMetrics{}
	}
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &riskAssessmentService{
		backend: backend,
		metrics: metrics,
		logger:  log,
	}
}

// Assess implements domainService.RiskAssessor
func (s *riskAssessmentService) Assess(ctx context.Context, incident models.SecurityIncident) (*models.RiskAnalysis, error) {
	log := s.logger.ForContext(ctx).WithFields(logger.Fields{
		"incident_id": incident.ID,
		"category":    incident.Category.String(),
	})

	// 1. Validate the incident before spending a backend call on it
	if err := incident.Validate(); err != nil {
		log.Warn(ctx, "Rejected invalid incident", logger.String("error", err.Error()))
		return nil, err
	}

	// 2. One structured call, never retried
	start := time.Now()
	body, err := s.backend.GenerateJSON(ctx, BuildAssessmentPrompt(incident), RiskAnalysisSchema())
	if err != nil {
		berr := asBackendError(ctx, err, "risk assessment request failed")
		log.Error(ctx, "Risk assessment backend call failed", berr, logger.Duration("elapsed", time.Since(start)))
		return nil, berr
	}

	// 3. Validating decode
	analysis, derr := decodeRiskAnalysis(body)
	if derr != nil {
		s.metrics.RecordAssessmentRejected(derr.reason)
		log.Warn(ctx, "Rejected malformed risk assessment",
			logger.String("reason", derr.reason),
			logger.String("error", derr.err.Error()))
		return nil, derr.err
	}

	s.metrics.RecordAssessment(incident.Category.String(), incident.RiskLevel.String(), analysis.OverallScore)
	log.Info(ctx, "Risk assessment completed",
		logger.Float64("overall_score", analysis.OverallScore),
		logger.Int("recommendations", len(analysis.Recommendations)),
		logger.Duration("elapsed", time.Since(start)))
	return analysis, nil
}

// asBackendError makes sure every backend failure surfaces as backend_error, including
// cancellation of ctx.
func asBackendError(ctx context.Context, err error, msg string) error {
	if errors.IsBackendError(err) {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		err = errors.Join(err, ctxErr)
	}
	return errors.ErrBackend(msg).WithCause(err)
}
