package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	anthropicEndpoint = "https://api.anthropic.com/v1/messages"
	anthropicVersion  = "2023-06-01"
)

// AnthropicConfig defines configuration options for the Anthropic provider.
type AnthropicConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// AnthropicProvider implements Provider against the Anthropic Messages API.
type AnthropicProvider struct {
	cfg    AnthropicConfig
	client *http.Client
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewAnthropicProvider builds a new provider using the supplied configuration.
func NewAnthropicProvider(cfg AnthropicConfig) (*AnthropicProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "claude-3-sonnet-20240229"
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = anthropicEndpoint
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}

	logger := cfg.Logger.With().Str("component", "anthropic_provider").Logger()

	return &AnthropicProvider{
		cfg:    cfg,
		client: client,
		tracer: otel.Tracer("github.com/JSON-Bjorn/omniwhey-homework-fixer/pkg/ai/anthropic"),
		logger: logger,
	}, nil
}

// Name identifies this provider in logs and fallback decisions.
func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float32            `json:"temperature"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends a messages request and returns the raw response text.
func (p *AnthropicProvider) Complete(parent context.Context, prompt string, opts CompletionOptions) (string, error) {
	ctx, span := p.tracer.Start(parent, "anthropic.complete", trace.WithAttributes(
		attribute.String("model", p.cfg.Model),
	))
	defer span.End()

	payload, err := json.Marshal(anthropicRequest{
		Model:       p.cfg.Model,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		Messages: []anthropicMessage{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", &CallError{Provider: p.Name(), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return "", &CallError{Provider: p.Name(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.cfg.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	p.logger.Debug().Str("model", p.cfg.Model).Int("prompt_length", len(prompt)).Msg("sending messages request")

	start := time.Now()
	resp, err := p.client.Do(req)
	aiDuration.WithLabelValues(p.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		aiFailures.WithLabelValues(p.Name()).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.logger.Debug().Err(err).Msg("messages request failed")
		return "", &CallError{Provider: p.Name(), Transient: true, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		aiFailures.WithLabelValues(p.Name()).Inc()
		return "", &CallError{Provider: p.Name(), Transient: true, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("anthropic returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		aiFailures.WithLabelValues(p.Name()).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", &CallError{Provider: p.Name(), Transient: anthropicTransient(resp.StatusCode), Err: err}
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		aiFailures.WithLabelValues(p.Name()).Inc()
		span.RecordError(err)
		return "", &CallError{Provider: p.Name(), Err: fmt.Errorf("parse anthropic response: %w", err)}
	}

	if len(parsed.Content) == 0 {
		err := fmt.Errorf("no content returned from anthropic")
		aiFailures.WithLabelValues(p.Name()).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", &CallError{Provider: p.Name(), Err: err}
	}

	p.logger.Debug().Dur("duration", time.Since(start)).Msg("messages request succeeded")

	return strings.TrimSpace(parsed.Content[0].Text), nil
}

func anthropicTransient(status int) bool {
	switch {
	case status == http.StatusRequestTimeout, status == http.StatusTooManyRequests:
		return true
	case status >= 500:
		return true
	default:
		return false
	}
}
