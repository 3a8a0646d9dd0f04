package backend

import (
	"context"

	"github.com/turtacn/sentinel/internal/config"
	domainService "github.com/turtacn/sentinel/internal/domain/service"
	"github.com/turtacn/sentinel/internal/infrastructure/monitoring"
	"github.com/turtacn/sentinel/pkg/constants"
	"github.com/turtacn/sentinel/pkg/errors"
	"github.com/turtacn/sentinel/pkg/logger"
	"github.com/turtacn/sentinel/pkg/utils"
)

// New builds the configured provider and wraps it with instrumentation.
func New(
	ctx context.Context,
	cfg config.GenAIConfig,
	tracing *monitoring.TracingManager,
	metrics domainService.Metrics,
	log logger.Logger,
) (domainService.GenerativeBackend, error) {
	log.Info(ctx, "Creating generative backend",
		logger.String("provider", cfg.Provider),
		logger.String("model", cfg.ResolvedModel()),
		logger.String("api_key", utils.MaskSecret(cfg.APIKey)))

	var next domainService.GenerativeBackend
	switch constants.BackendProvider(cfg.Provider) {
	case constants.ProviderGemini:
		b, err := NewGeminiBackend(ctx, GeminiOptions{
			APIKey:  cfg.APIKey,
			Model:   cfg.ResolvedModel(),
			Timeout: cfg.Timeout,
			BaseURL: cfg.BaseURL,
		}, log)
		if err != nil {
			return nil, err
		}
		next = b
	case constants.ProviderOpenAI:
		b, err := NewOpenAIBackend(OpenAIOptions{
			APIKey:  cfg.APIKey,
			Model:   cfg.ResolvedModel(),
			Timeout: cfg.Timeout,
			BaseURL: cfg.BaseURL,
		}, log)
		if err != nil {
			return nil, err
		}
		next = b
	default:
		return nil, errors.ErrInvalidConfig("unknown genai provider: " + cfg.Provider)
	}
	return NewInstrumentedBackend(next, tracing, metrics, log), nil
}
