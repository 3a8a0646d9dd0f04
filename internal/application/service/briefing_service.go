package service

import (
	"context"
	"strings"
	"time"

	"github.com/turtacn/sentinel/internal/domain/models"
	domainService "github.com/turtacn/sentinel/internal/domain/service"
	"github.com/turtacn/sentinel/pkg/constants"
	"github.com/turtacn/sentinel/pkg/logger"
)

// briefingService is the concrete implementation of domainService.Briefer
type briefingService struct {
	backend domainService.GenerativeBackend
	metrics domainService.Metrics
	logger  logger.Logger
}

// NewBriefingService creates a Briefer backed by the free-text generation call.
func NewBriefingService(
	backend domainService.GenerativeBackend,
	metrics domainService.Metrics,
	log logger.Logger,
) domainService.Briefer {
	if metrics == nil {
		metrics = domainService.NoopMetrics{}
	}
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &briefingService{
		backend: backend,
		metrics: metrics,
		logger:  log,
	}
}

// Brief implements domainService.Briefer
func (s *briefingService) Brief(ctx context.Context, incidents []models.SecurityIncident) (string, error) {
	log := s.logger.ForContext(ctx).WithFields(logger.Fields{"incident_count": len(incidents)})

	// 1. Every incident valid, ids unique
	if err := models.ValidateIncidentSet(incidents); err != nil {
		log.Warn(ctx, "Rejected invalid briefing input", logger.String("error", err.Error()))
		return "", err
	}

	// 2. One free-text call, never retried
	start := time.Now()
	text, err := s.backend.GenerateText(ctx, BuildBriefingPrompt(incidents))
	if err != nil {
		berr := asBackendError(ctx, err, "briefing request failed")
		log.Error(ctx, "Briefing backend call failed", berr, logger.Duration("elapsed", time.Since(start)))
		return "", berr
	}

	// 3. An empty successful response is the only failure recovered locally
	if strings.TrimSpace(text) == "" {
		s.metrics.RecordBriefing(len(incidents), true)
		log.Warn(ctx, "Backend returned an empty brief, using fallback text")
		return constants.BriefingFallbackText, nil
	}

	s.metrics.RecordBriefing(len(incidents), false)
	log.Info(ctx, "Briefing generated",
		logger.Int("length", len(text)),
		logger.Duration("elapsed", time.Since(start)))
	return text, nil
}

// IsFallbackBrief reports whether text is the substituted fallback brief.
func IsFallbackBrief(text string) bool {
	return text == constants.BriefingFallbackText
}
