package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	domainService "github.com/turtacn/sentinel/internal/domain/service"
	"github.com/turtacn/sentinel/pkg/constants"
	"github.com/turtacn/sentinel/pkg/errors"
	"github.com/turtacn/sentinel/pkg/logger"
)

// OpenAIBackend calls an OpenAI-compatible chat completions API (OpenAI, Ollama, vLLM, ...).
type OpenAIBackend struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  logger.Logger
}

// OpenAIOptions configures an OpenAIBackend.
type OpenAIOptions struct {
	APIKey     string
	Model      string
	Timeout    time.Duration
	BaseURL    string
	HTTPClient *http.Client
}

// NewOpenAIBackend creates the client once; it is reused for the life of the process.
func NewOpenAIBackend(opts OpenAIOptions, log logger.Logger) (*OpenAIBackend, error) {
	if opts.APIKey == "" {
		return nil, errors.ErrInvalidConfig("openai backend requires an API key")
	}
	if opts.Model == "" {
		opts.Model = constants.DefaultOpenAIModel
	}
	if opts.Timeout <= 0 {
		opts.Timeout = constants.DefaultBackendTimeout
	}

	config := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		config.BaseURL = opts.BaseURL
	}
	if opts.HTTPClient != nil {
		config.HTTPClient = opts.HTTPClient
	}

	log.Info(context.Background(), "OpenAI-compatible backend initialized",
		logger.String("model", opts.Model),
		logger.String("base_url", config.BaseURL))
	return &OpenAIBackend{
		client:  openai.NewClientWithConfig(config),
		model:   opts.Model,
		timeout: opts.Timeout,
		logger:  log,
	}, nil
}

func (b *OpenAIBackend) Name() string { return string(constants.ProviderOpenAI) }

// schemaDocument renders a ResponseSchema as a JSON Schema document.
type schemaDocument struct {
	schema *domainService.ResponseSchema
}

func (d schemaDocument) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.schema)
}

// GenerateJSON implements domainService.GenerativeBackend
func (b *OpenAIBackend) GenerateJSON(ctx context.Context, prompt string, schema *domainService.ResponseSchema) (string, error) {
	req := b.request(prompt)
	req.ResponseFormat = &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
		JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
			Name:   "risk_analysis",
			Schema: schemaDocument{schema: schema},
		},
	}

	content, ok, err := b.complete(ctx, req)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errors.ErrBackend("openai returned no choices").
			WithMetadata("provider", string(constants.ProviderOpenAI))
	}
	return content, nil
}

// GenerateText implements domainService.GenerativeBackend. A response without choices
// counts as an empty text payload.
func (b *OpenAIBackend) GenerateText(ctx context.Context, prompt string) (string, error) {
	content, _, err := b.complete(ctx, b.request(prompt))
	return content, err
}

func (b *OpenAIBackend) request(prompt string) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
}

func (b *OpenAIBackend) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	resp, err := b.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", false, wrapOpenAIError(ctx, err)
	}
	if len(resp.Choices) == 0 {
		b.logger.Warn(ctx, "OpenAI returned no choices")
		return "", false, nil
	}
	b.logger.Debug(ctx, "Received response from OpenAI", logger.String("finish_reason", string(resp.Choices[0].FinishReason)))
	return resp.Choices[0].Message.Content, true, nil
}

func wrapOpenAIError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		err = errors.Join(err, ctxErr)
	}
	berr := errors.ErrBackend("openai chat completion failed").WithCause(err).
		WithMetadata("provider", string(constants.ProviderOpenAI))
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		berr = berr.WithMetadata("upstream_status", apiErr.HTTPStatusCode)
	case errors.As(err, &reqErr):
		berr = berr.WithMetadata("upstream_status", reqErr.HTTPStatusCode)
	}
	return berr
}
