package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/turtacn/sentinel/internal/config"
	domainService "github.com/turtacn/sentinel/internal/domain/service"
	"github.com/turtacn/sentinel/internal/domain/service/mocks"
	"github.com/turtacn/sentinel/pkg/errors"
	"github.com/turtacn/sentinel/pkg/logger"
)

func testSchema() *domainService.ResponseSchema {
	return &domainService.ResponseSchema{
		Type: domainService.SchemaTypeObject,
		Properties: map[string]*domainService.ResponseSchema{
			"overallScore":    domainService.BoundedNumber("", 0, 100),
			"summary":         domainService.StringSchema(""),
			"recommendations": domainService.ArrayOf("", domainService.StringSchema("")),
		},
		PropertyOrdering: []string{"overallScore", "summary", "recommendations"},
		Required:         []string{"overallScore", "summary", "recommendations"},
	}
}

func TestToGenAISchema(t *testing.T) {
	out := toGenAISchema(testSchema())

	assert.Equal(t, genai.TypeObject, out.Type)
	assert.Equal(t, []string{"overallScore", "summary", "recommendations"}, out.PropertyOrdering)
	assert.Equal(t, []string{"overallScore", "summary", "recommendations"}, out.Required)
	score := out.Properties["overallScore"]
	assert.Equal(t, genai.TypeNumber, score.Type)
	assert.Equal(t, 0.0, *score.Minimum)
	assert.Equal(t, 100.0, *score.Maximum)
	assert.Equal(t, genai.TypeArray, out.Properties["recommendations"].Type)
	assert.Equal(t, genai.TypeString, out.Properties["recommendations"].Items.Type)
	assert.Nil(t, toGenAISchema(nil))
}

// ================================================================================
// Gemini
// ================================================================================

func geminiServer(t *testing.T, status int, reply string, inspect func(map[string]any)) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-test:generateContent"), r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		if inspect != nil {
			var body map[string]any
			raw, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(raw, &body))
			inspect(body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
}

func newTestGemini(t *testing.T, srv *httptest.Server) *GeminiBackend {
	b, err := NewGeminiBackend(context.Background(), GeminiOptions{
		APIKey:  "test-key",
		Model:   "gemini-test",
		Timeout: 5 * time.Second,
		BaseURL: srv.URL + "/",
	}, logger.NewNoopLogger())
	require.NoError(t, err)
	return b
}

func TestGeminiBackend_GenerateJSON(t *testing.T) {
	reply := `{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"overallScore\":87}"}]},"finishReason":"STOP"}]}`
	srv := geminiServer(t, http.StatusOK, reply, func(body map[string]any) {
		gen, ok := body["generationConfig"].(map[string]any)
		require.True(t, ok, "generationConfig missing")
		assert.Equal(t, "application/json", gen["responseMimeType"])
		schema := gen["responseSchema"].(map[string]any)
		assert.Equal(t, "OBJECT", schema["type"])
	})
	defer srv.Close()

	out, err := newTestGemini(t, srv).GenerateJSON(context.Background(), "assess", testSchema())
	require.NoError(t, err)
	assert.Equal(t, `{"overallScore":87}`, out)
}

func TestGeminiBackend_GenerateTextEmpty(t *testing.T) {
	srv := geminiServer(t, http.StatusOK, `{"candidates":[]}`, nil)
	defer srv.Close()

	out, err := newTestGemini(t, srv).GenerateText(context.Background(), "brief")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestGeminiBackend_HTTPErrorIsBackendError(t *testing.T) {
	srv := geminiServer(t, http.StatusTooManyRequests,
		`{"error":{"code":429,"message":"quota exhausted","status":"RESOURCE_EXHAUSTED"}}`, nil)
	defer srv.Close()

	_, err := newTestGemini(t, srv).GenerateText(context.Background(), "brief")
	require.Error(t, err)
	assert.True(t, errors.IsBackendError(err))
	sErr, _ := errors.AsSentinelError(err)
	assert.Equal(t, 429, sErr.Metadata()["upstream_status"])
}

func TestNewGeminiBackend_RequiresKey(t *testing.T) {
	_, err := NewGeminiBackend(context.Background(), GeminiOptions{}, logger.NewNoopLogger())
	assert.True(t, errors.HasCode(err, errors.CodeInvalidConfig))
}

// ================================================================================
// OpenAI-compatible
// ================================================================================

func openAIServer(t *testing.T, status int, reply string, inspect func(map[string]any)) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		if inspect != nil {
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			inspect(body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
}

func completion(content string) string {
	raw, _ := json.Marshal(content)
	return `{"id":"x","object":"chat.completion","model":"gpt-test","choices":[{"index":0,"message":{"role":"assistant","content":` +
		string(raw) + `},"finish_reason":"stop"}]}`
}

func newTestOpenAI(t *testing.T, srv *httptest.Server) *OpenAIBackend {
	b, err := NewOpenAIBackend(OpenAIOptions{
		APIKey:  "sk-test",
		Model:   "gpt-test",
		Timeout: 5 * time.Second,
		BaseURL: srv.URL + "/v1",
	}, logger.NewNoopLogger())
	require.NoError(t, err)
	return b
}

func TestOpenAIBackend_GenerateJSONSendsSchema(t *testing.T) {
	srv := openAIServer(t, http.StatusOK, completion(`{"overallScore":87}`), func(body map[string]any) {
		assert.Equal(t, "gpt-test", body["model"])
		format := body["response_format"].(map[string]any)
		assert.Equal(t, "json_schema", format["type"])
		js := format["json_schema"].(map[string]any)
		schema := js["schema"].(map[string]any)
		assert.Equal(t, "object", schema["type"])
		props := schema["properties"].(map[string]any)
		assert.Equal(t, 100.0, props["overallScore"].(map[string]any)["maximum"])
	})
	defer srv.Close()

	out, err := newTestOpenAI(t, srv).GenerateJSON(context.Background(), "assess", testSchema())
	require.NoError(t, err)
	assert.Equal(t, `{"overallScore":87}`, out)
}

func TestOpenAIBackend_NoChoices(t *testing.T) {
	srv := openAIServer(t, http.StatusOK, `{"id":"x","object":"chat.completion","choices":[]}`, nil)
	defer srv.Close()
	b := newTestOpenAI(t, srv)

	_, err := b.GenerateJSON(context.Background(), "assess", testSchema())
	assert.True(t, errors.IsBackendError(err))

	text, err := b.GenerateText(context.Background(), "brief")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestOpenAIBackend_UnauthorizedIsBackendError(t *testing.T) {
	srv := openAIServer(t, http.StatusUnauthorized,
		`{"error":{"message":"invalid api key","type":"invalid_request_error","code":"invalid_api_key"}}`, nil)
	defer srv.Close()

	_, err := newTestOpenAI(t, srv).GenerateText(context.Background(), "brief")
	assert.True(t, errors.IsBackendError(err))
	sErr, _ := errors.AsSentinelError(err)
	assert.Equal(t, http.StatusUnauthorized, sErr.Metadata()["upstream_status"])
}

func TestOpenAIBackend_CanceledContext(t *testing.T) {
	srv := openAIServer(t, http.StatusOK, completion("late"), nil)
	defer srv.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestOpenAI(t, srv).GenerateText(ctx, "brief")
	assert.True(t, errors.IsBackendError(err))
	assert.ErrorIs(t, err, context.Canceled)
}

// ================================================================================
// Instrumentation and factory
// ================================================================================

func TestInstrumentedBackend_RecordsOutcome(t *testing.T) {
	next := new(mocks.MockGenerativeBackend)
	metrics := new(mocks.MockMetrics)
	next.On("Name").Return("gemini")
	next.On("GenerateText", mock.Anything, "ok").Return("text", nil)
	next.On("GenerateJSON", mock.Anything, "bad", mock.Anything).Return("", errors.ErrBackend("boom"))
	metrics.On("RecordBackendCall", "gemini", "text", domainService.OutcomeSuccess, mock.AnythingOfType("time.Duration")).Once()
	metrics.On("RecordBackendCall", "gemini", "structured", domainService.OutcomeError, mock.AnythingOfType("time.Duration")).Once()

	b := NewInstrumentedBackend(next, nil, metrics, nil)
	out, err := b.GenerateText(context.Background(), "ok")
	require.NoError(t, err)
	assert.Equal(t, "text", out)

	_, err = b.GenerateJSON(context.Background(), "bad", testSchema())
	assert.True(t, errors.IsBackendError(err))
	metrics.AssertExpectations(t)
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(context.Background(), config.GenAIConfig{Provider: "claude", APIKey: "k"}, nil, nil, logger.NewNoopLogger())
	assert.True(t, errors.HasCode(err, errors.CodeInvalidConfig))
}

func TestNew_OpenAIProvider(t *testing.T) {
	b, err := New(context.Background(), config.GenAIConfig{Provider: "openai", APIKey: "sk-test", Timeout: time.Second},
		nil, nil, logger.NewNoopLogger())
	require.NoError(t, err)
	assert.Equal(t, "openai", b.Name())
}
