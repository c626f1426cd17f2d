package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	aiDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "omniwhey",
		Subsystem: "ai",
		Name:      "completion_duration_seconds",
		Help:      "Duration of AI completion requests",
	}, []string{"provider"})

	aiFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "omniwhey",
		Subsystem: "ai",
		Name:      "completion_failures_total",
		Help:      "Number of AI completion failures",
	}, []string{"provider"})
)

const openAISystemPrompt = "You are a helpful assistant."

// OpenAIConfig defines configuration options for the OpenAI provider.
type OpenAIConfig struct {
	APIKey string
	Model  string
	Logger zerolog.Logger
}

// OpenAIProvider implements Provider against the OpenAI chat completion API.
type OpenAIProvider struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIProvider builds a new provider using the supplied configuration.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o"
	}

	tracer := otel.Tracer("github.com/JSON-Bjorn/omniwhey-homework-fixer/pkg/ai/openai")
	logger := cfg.Logger.With().Str("component", "openai_provider").Logger()

	config := openai.DefaultConfig(cfg.APIKey)
	client := openai.NewClientWithConfig(config)

	return &OpenAIProvider{
		client: client,
		cfg:    cfg,
		tracer: tracer,
		logger: logger,
	}, nil
}

// Name identifies this provider in logs and fallback decisions.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Complete sends a chat completion request and returns the raw response text.
func (p *OpenAIProvider) Complete(parent context.Context, prompt string, opts CompletionOptions) (string, error) {
	ctx, span := p.tracer.Start(parent, "openai.complete", trace.WithAttributes(
		attribute.String("model", p.cfg.Model),
	))
	defer span.End()

	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       p.cfg.Model,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: openAISystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}

	p.logger.Debug().Str("model", p.cfg.Model).Int("prompt_length", len(prompt)).Msg("sending completion request")

	resp, err := p.client.CreateChatCompletion(ctx, request)
	aiDuration.WithLabelValues(p.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		aiFailures.WithLabelValues(p.Name()).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.logger.Debug().Err(err).Msg("completion request failed")
		return "", &CallError{Provider: p.Name(), Transient: openAITransient(err), Err: err}
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no choices returned from openai")
		aiFailures.WithLabelValues(p.Name()).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", &CallError{Provider: p.Name(), Err: err}
	}

	p.logger.Debug().Dur("duration", time.Since(start)).Msg("completion request succeeded")

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// openAITransient classifies errors worth retrying. API errors carrying an
// auth or validation status are terminal; everything else (timeouts, resets,
// 429s, 5xx) may clear up on a later attempt.
func openAITransient(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == 408, apiErr.HTTPStatusCode == 429:
			return true
		case apiErr.HTTPStatusCode >= 500:
			return true
		default:
			return false
		}
	}

	// Non-API errors are transport failures.
	return true
}
