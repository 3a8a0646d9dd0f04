package backend

import (
	"context"
	"time"

	domainService "github.com/turtacn/sentinel/internal/domain/service"
	"github.com/turtacn/sentinel/internal/infrastructure/monitoring"
	"github.com/turtacn/sentinel/pkg/constants"
	"github.com/turtacn/sentinel/pkg/logger"
)

// InstrumentedBackend wraps a backend with a span, metrics and a debug log per call.
type InstrumentedBackend struct {
	next    domainService.GenerativeBackend
	tracing *monitoring.TracingManager
	metrics domainService.Metrics
	logger  logger.Logger
}

// NewInstrumentedBackend decorates next. Nil tracing/metrics/log fall back to no-ops.
func NewInstrumentedBackend(
	next domainService.GenerativeBackend,
	tracing *monitoring.TracingManager,
	metrics domainService.Metrics,
	log logger.Logger,
) *InstrumentedBackend {
	if tracing == nil {
		tracing = monitoring.NewNoopTracingManager()
	}
	if metrics == nil {
		metrics = domainService.NoopMetrics{}
	}
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &InstrumentedBackend{next: next, tracing: tracing, metrics: metrics, logger: log}
}

func (b *InstrumentedBackend) Name() string { return b.next.Name() }

// GenerateJSON implements domainService.GenerativeBackend
func (b *InstrumentedBackend) GenerateJSON(ctx context.Context, prompt string, schema *domainService.ResponseSchema) (string, error) {
	var out string
	err := b.observe(ctx, constants.OperationStructured, len(prompt), func(ctx context.Context) error {
		var err error
		out, err = b.next.GenerateJSON(ctx, prompt, schema)
		return err
	})
	return out, err
}

// GenerateText implements domainService.GenerativeBackend
func (b *InstrumentedBackend) GenerateText(ctx context.Context, prompt string) (string, error) {
	var out string
	err := b.observe(ctx, constants.OperationText, len(prompt), func(ctx context.Context) error {
		var err error
		out, err = b.next.GenerateText(ctx, prompt)
		return err
	})
	return out, err
}

func (b *InstrumentedBackend) observe(ctx context.Context, op constants.BackendOperation, promptLen int, fn func(context.Context) error) error {
	provider := b.next.Name()
	ctx, span := b.tracing.StartSpan(ctx, "genai."+string(op), logger.Fields{
		"genai.provider":      provider,
		"genai.operation":     string(op),
		"genai.prompt_length": promptLen,
	})

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)

	outcome := domainService.OutcomeSuccess
	switch {
	case err != nil && ctx.Err() != nil:
		outcome = domainService.OutcomeCanceled
	case err != nil:
		outcome = domainService.OutcomeError
	}
	b.metrics.RecordBackendCall(provider, string(op), outcome, elapsed)
	b.tracing.EndSpan(span, err)
	b.logger.ForContext(ctx).Debug(ctx, "Backend call finished",
		logger.String("provider", provider),
		logger.String("operation", string(op)),
		logger.String("outcome", string(outcome)),
		logger.Duration("elapsed", elapsed))
	return err
}
