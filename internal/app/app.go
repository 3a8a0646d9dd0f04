// Package app assembles the Sentinel services from configuration. It is shared by
// the HTTP server and the CLI.
package app

import (
	"context"

	appService "github.com/turtacn/sentinel/internal/application/service"
	"github.com/turtacn/sentinel/internal/config"
	"github.com/turtacn/sentinel/internal/domain/repository"
	domainService "github.com/turtacn/sentinel/internal/domain/service"
	"github.com/turtacn/sentinel/internal/infrastructure/backend"
	"github.com/turtacn/sentinel/internal/infrastructure/monitoring"
	"github.com/turtacn/sentinel/internal/infrastructure/persistence/memory"
	"github.com/turtacn/sentinel/internal/infrastructure/ratelimit"
	"github.com/turtacn/sentinel/internal/infrastructure/redis"
	"github.com/turtacn/sentinel/pkg/constants"
	"github.com/turtacn/sentinel/pkg/logger"
)

// Services is the assembled application layer.
type Services struct {
	Backend      domainService.GenerativeBackend
	Assessor     domainService.RiskAssessor
	Briefer      domainService.Briefer
	Incidents    repository.IncidentRepository
	Regions      repository.RegionRepository
	Intelligence appService.IntelligenceAppService
}

// NewServices builds the backend, the feed repositories and the application services.
func NewServices(
	ctx context.Context,
	cfg *config.Config,
	tracing *monitoring.TracingManager,
	metrics domainService.Metrics,
	log logger.Logger,
) (*Services, error) {
	// 1. Generative backend
	gen, err := backend.New(ctx, cfg.GenAI, tracing, metrics, log)
	if err != nil {
		return nil, err
	}

	// 2. Incident feed and region table
	incidents, regions, err := memory.NewRepositories(ctx, cfg.Feed.Path, log)
	if err != nil {
		return nil, err
	}

	// 3. Risk clients and the application service over them
	assessor := appService.NewRiskAssessmentService(gen, metrics, log)
	briefer := appService.NewBriefingService(gen, metrics, log)

	return &Services{
		Backend:      gen,
		Assessor:     assessor,
		Briefer:      briefer,
		Incidents:    incidents,
		Regions:      regions,
		Intelligence: appService.NewIntelligenceAppService(incidents, regions, assessor, briefer, cfg.GenAI.MaxConcurrency, log),
	}, nil
}

// NewRateLimiter builds the configured limiter. The returned Connection is nil unless
// the Redis backend is used; the caller closes it.
func NewRateLimiter(ctx context.Context, cfg *config.Config, log logger.Logger) (domainService.RateLimitService, *redis.Connection, error) {
	if !cfg.RateLimit.Enabled {
		return nil, nil, nil
	}

	limits := ratelimit.LimiterConfig{
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		Burst:             cfg.RateLimit.Burst,
	}

	if constants.RateLimitBackend(cfg.RateLimit.Backend) != constants.RateLimitBackendRedis {
		log.Info(ctx, "Using in-memory rate limiter",
			logger.Int("requests_per_minute", limits.RequestsPerMinute),
			logger.Int("burst", limits.Burst))
		return ratelimit.NewMemoryRateLimiter(limits), nil, nil
	}

	conn := redis.NewConnection(&cfg.Redis, log)
	if err := conn.Connect(ctx); err != nil {
		return nil, nil, err
	}
	limiter, err := ratelimit.NewRedisRateLimiter(conn.Client(), limits, log, ratelimit.WithLocalFallback())
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return limiter, conn, nil
}
