// Package backend implements the generative backends used by the risk clients.
package backend

import (
	"context"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	domainService "github.com/turtacn/sentinel/internal/domain/service"
	"github.com/turtacn/sentinel/pkg/constants"
	"github.com/turtacn/sentinel/pkg/errors"
	"github.com/turtacn/sentinel/pkg/logger"
)

// GeminiBackend calls the Gemini API through the google.golang.org/genai client.
type GeminiBackend struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  logger.Logger
}

// GeminiOptions configures a GeminiBackend.
type GeminiOptions struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	// BaseURL overrides the API endpoint, e.g. for a proxy or a test server.
	BaseURL    string
	HTTPClient *http.Client
}

// NewGeminiBackend creates the client once; it is reused for the life of the process.
func NewGeminiBackend(ctx context.Context, opts GeminiOptions, log logger.Logger) (*GeminiBackend, error) {
	if opts.APIKey == "" {
		return nil, errors.ErrInvalidConfig("gemini backend requires an API key")
	}
	if opts.Model == "" {
		opts.Model = constants.DefaultGeminiModel
	}
	if opts.Timeout <= 0 {
		opts.Timeout = constants.DefaultBackendTimeout
	}

	cc := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if opts.BaseURL != "" {
		cc.HTTPOptions.BaseURL = opts.BaseURL
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, errors.ErrInvalidConfig("failed to create gemini client").WithCause(err)
	}

	log.Info(ctx, "Gemini backend initialized", logger.String("model", opts.Model))
	return &GeminiBackend{
		client:  client,
		model:   opts.Model,
		timeout: opts.Timeout,
		logger:  log,
	}, nil
}

func (b *GeminiBackend) Name() string { return string(constants.ProviderGemini) }

// GenerateJSON implements domainService.GenerativeBackend
func (b *GeminiBackend) GenerateJSON(ctx context.Context, prompt string, schema *domainService.ResponseSchema) (string, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   toGenAISchema(schema),
	}
	return b.generate(ctx, prompt, cfg)
}

// GenerateText implements domainService.GenerativeBackend
func (b *GeminiBackend) GenerateText(ctx context.Context, prompt string) (string, error) {
	return b.generate(ctx, prompt, nil)
}

func (b *GeminiBackend) generate(ctx context.Context, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	resp, err := b.client.Models.GenerateContent(ctx, b.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", wrapGeminiError(ctx, err)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		b.logger.Warn(ctx, "Gemini blocked the prompt", logger.String("block_reason", string(resp.PromptFeedback.BlockReason)))
	}
	return resp.Text(), nil
}

func wrapGeminiError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		err = errors.Join(err, ctxErr)
	}
	berr := errors.ErrBackend("gemini generate content failed").WithCause(err).
		WithMetadata("provider", string(constants.ProviderGemini))
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		berr = berr.WithMetadata("upstream_status", apiErr.Code)
	}
	return berr
}

// toGenAISchema translates the provider-neutral schema into Gemini's OpenAPI subset.
func toGenAISchema(s *domainService.ResponseSchema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        genai.Type(strings.ToUpper(string(s.Type))),
		Description: s.Description,
		Minimum:     s.Minimum,
		Maximum:     s.Maximum,
		Items:       toGenAISchema(s.Items),
	}
	if len(s.Required) > 0 {
		out.Required = append([]string(nil), s.Required...)
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenAISchema(prop)
		}
		out.PropertyOrdering = s.OrderedProperties()
	}
	return out
}
