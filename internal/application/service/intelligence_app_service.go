package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/sentinel/internal/domain/models"
	"github.com/turtacn/sentinel/internal/domain/repository"
	domainService "github.com/turtacn/sentinel/internal/domain/service"
	"github.com/turtacn/sentinel/pkg/constants"
	"github.com/turtacn/sentinel/pkg/logger"
)

// IntelligenceAppService defines the use cases behind the command-center API and CLI
type IntelligenceAppService interface {
	// ListIncidents returns the intelligence feed
	ListIncidents(ctx context.Context) ([]models.SecurityIncident, error)

	// GetIncident returns one feed incident
	GetIncident(ctx context.Context, id string) (models.SecurityIncident, error)

	// AnalyzeIncident assesses a feed incident by id
	AnalyzeIncident(ctx context.Context, id string) (*models.IncidentAnalysis, error)

	// AnalyzeIncidents assesses several feed incidents concurrently; an empty id list means the whole feed.
	// Each result carries either an analysis or its own error.
	AnalyzeIncidents(ctx context.Context, ids []string) ([]models.IncidentAnalysis, error)

	// AnalyzeSubmitted assesses an incident supplied by the caller
	AnalyzeSubmitted(ctx context.Context, incident models.SecurityIncident) (*models.RiskAnalysis, error)

	// BriefIncidents briefs over feed incidents; an empty id list means the whole feed
	BriefIncidents(ctx context.Context, ids []string) (*models.Briefing, error)

	// BriefSubmitted briefs over incidents supplied by the caller
	BriefSubmitted(ctx context.Context, incidents []models.SecurityIncident) (*models.Briefing, error)

	// Dashboard aggregates the feed and the region table
	Dashboard(ctx context.Context) (*models.DashboardSummary, error)

	// Regions returns the region risk table
	Regions(ctx context.Context) ([]models.RegionRisk, error)
}

// intelligenceAppServiceImpl is the concrete implementation of IntelligenceAppService
type intelligenceAppServiceImpl struct {
	incidents      repository.IncidentRepository
	regions        repository.RegionRepository
	assessor       domainService.RiskAssessor
	briefer        domainService.Briefer
	maxConcurrency int
	logger         logger.Logger
	now            func() time.Time
}

// NewIntelligenceAppService creates a new instance of IntelligenceAppService
func NewIntelligenceAppService(
	incidents repository.IncidentRepository,
	regions repository.RegionRepository,
	assessor domainService.RiskAssessor,
	briefer domainService.Briefer,
	maxConcurrency int,
	log logger.Logger,
) IntelligenceAppService {
	if maxConcurrency <= 0 {
		maxConcurrency = constants.DefaultMaxConcurrency
	}
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &intelligenceAppServiceImpl{
		incidents:      incidents,
		regions:        regions,
		assessor:       assessor,
		briefer:        briefer,
		maxConcurrency: maxConcurrency,
		logger:         log,
		now:            time.Now,
	}
}

func (s *intelligenceAppServiceImpl) ListIncidents(ctx context.Context) ([]models.SecurityIncident, error) {
	return s.incidents.List(ctx)
}

func (s *intelligenceAppServiceImpl) GetIncident(ctx context.Context, id string) (models.SecurityIncident, error) {
	return s.incidents.Get(ctx, id)
}

func (s *intelligenceAppServiceImpl) AnalyzeIncident(ctx context.Context, id string) (*models.IncidentAnalysis, error) {
	incident, err := s.incidents.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	analysis, err := s.assessor.Assess(ctx, incident)
	if err != nil {
		return nil, err
	}
	return &models.IncidentAnalysis{Incident: incident, Analysis: analysis}, nil
}

func (s *intelligenceAppServiceImpl) AnalyzeIncidents(ctx context.Context, ids []string) ([]models.IncidentAnalysis, error) {
	// 1. Resolve the batch before any backend call
	incidents, err := s.resolve(ctx, ids)
	if err != nil {
		return nil, err
	}

	// 2. Fan out, bounded; one failed item does not cancel the others
	results := make([]models.IncidentAnalysis, len(incidents))
	var g errgroup.Group
	g.SetLimit(s.maxConcurrency)
	for i, incident := range incidents {
		g.Go(func() error {
			analysis, err := s.assessor.Assess(ctx, incident)
			results[i] = models.IncidentAnalysis{Incident: incident, Analysis: analysis, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	s.logger.ForContext(ctx).Info(ctx, "Batch assessment finished",
		logger.Int("total", len(results)),
		logger.Int("failed", failed))
	return results, nil
}

func (s *intelligenceAppServiceImpl) AnalyzeSubmitted(ctx context.Context, incident models.SecurityIncident) (*models.RiskAnalysis, error) {
	return s.assessor.Assess(ctx, incident)
}

func (s *intelligenceAppServiceImpl) BriefIncidents(ctx context.Context, ids []string) (*models.Briefing, error) {
	incidents, err := s.resolve(ctx, ids)
	if err != nil {
		return nil, err
	}
	return s.BriefSubmitted(ctx, incidents)
}

func (s *intelligenceAppServiceImpl) BriefSubmitted(ctx context.Context, incidents []models.SecurityIncident) (*models.Briefing, error) {
	text, err := s.briefer.Brief(ctx, incidents)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(incidents))
	for _, inc := range incidents {
		ids = append(ids, inc.ID)
	}
	return &models.Briefing{
		Text:        text,
		Fallback:    IsFallbackBrief(text),
		IncidentIDs: ids,
		GeneratedAt: s.now().UTC(),
	}, nil
}

func (s *intelligenceAppServiceImpl) Dashboard(ctx context.Context) (*models.DashboardSummary, error) {
	incidents, err := s.incidents.List(ctx)
	if err != nil {
		return nil, err
	}
	regions, err := s.regions.Regions(ctx)
	if err != nil {
		return nil, err
	}

	summary := &models.DashboardSummary{
		TotalIncidents: len(incidents),
		ByRiskLevel:    make(map[models.RiskLevel]int, len(models.RiskLevels())),
		ByCategory:     make(map[models.Category]int, len(models.Categories())),
		Regions:        regions,
	}
	for _, inc := range incidents {
		summary.ByRiskLevel[inc.RiskLevel]++
		summary.ByCategory[inc.Category]++
		if inc.RiskLevel == models.RiskLevelCritical {
			summary.CriticalIncidents++
		}
		if summary.HighestRisk == "" || inc.RiskLevel.MoreSevereThan(summary.HighestRisk) {
			summary.HighestRisk = inc.RiskLevel
		}
	}
	return summary, nil
}

func (s *intelligenceAppServiceImpl) Regions(ctx context.Context) ([]models.RegionRisk, error) {
	return s.regions.Regions(ctx)
}

// resolve maps ids to feed incidents; no ids selects the whole feed.
func (s *intelligenceAppServiceImpl) resolve(ctx context.Context, ids []string) ([]models.SecurityIncident, error) {
	if len(ids) == 0 {
		return s.incidents.List(ctx)
	}
	return s.incidents.GetMany(ctx, ids)
}
