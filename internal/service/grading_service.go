package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/JSON-Bjorn/omniwhey-homework-fixer/pkg/ai"
)

// ErrAllProvidersFailed indicates every configured AI provider was exhausted.
var ErrAllProvidersFailed = errors.New("all ai providers failed")

// Sampling parameters are fixed per use case: template generation wants rich
// long-form output, scoring wants terse deterministic output.
var (
	templateOptions = ai.CompletionOptions{MaxTokens: 2000, Temperature: 0.7}
	scoringOptions  = ai.CompletionOptions{MaxTokens: 10, Temperature: 0.2}
)

// GradingService produces AI-generated correction templates and scores.
type GradingService interface {
	GenerateCorrectionTemplate(ctx context.Context, instructions string, maxScore int) (string, error)
	GradeSubmission(ctx context.Context, instructions, submissionText string, maxScore int, correctionTemplate string) (int, error)
}

type gradingService struct {
	// templateProviders favors the rich-text provider; scoringProviders is the
	// reversed order, trying the terse consistent scorer first.
	templateProviders []ai.Provider
	scoringProviders  []ai.Provider
	logger            zerolog.Logger
	retryAttempts     int
	retryDelay        time.Duration
}

// NewGradingService builds the grading orchestrator. Either provider may be
// nil when its credential is missing; a nil provider is simply skipped.
func NewGradingService(richText, terseScore ai.Provider, logger zerolog.Logger) GradingService {
	return &gradingService{
		templateProviders: []ai.Provider{richText, terseScore},
		scoringProviders:  []ai.Provider{terseScore, richText},
		logger:            logger.With().Str("component", "grading_service").Logger(),
		retryAttempts:     3,
		retryDelay:        2 * time.Second,
	}
}

func (s *gradingService) GenerateCorrectionTemplate(ctx context.Context, instructions string, maxScore int) (string, error) {
	prompt := ai.TemplatePrompt(instructions, maxScore)
	return s.complete(ctx, s.templateProviders, prompt, templateOptions)
}

func (s *gradingService) GradeSubmission(ctx context.Context, instructions, submissionText string, maxScore int, correctionTemplate string) (int, error) {
	var prompt string
	if correctionTemplate != "" {
		prompt = ai.GradingPrompt(instructions, correctionTemplate, submissionText, maxScore)
	} else {
		prompt = ai.SimpleGradingPrompt(instructions, submissionText, maxScore)
	}

	text, err := s.complete(ctx, s.scoringProviders, prompt, scoringOptions)
	if err != nil {
		return 0, err
	}

	// A response that fails parsing is terminal. Falling back to the other
	// provider after one has already returned text would double-charge a
	// prompt that is likely malformed regardless of provider.
	return ai.ParseScore(text, maxScore, s.logger)
}

// complete walks the provider order, retrying transient failures per provider,
// and returns the first successful response.
func (s *gradingService) complete(ctx context.Context, providers []ai.Provider, prompt string, opts ai.CompletionOptions) (string, error) {
	for _, provider := range providers {
		if provider == nil {
			continue
		}

		text, err := s.callWithRetry(ctx, provider, prompt, opts)
		if err == nil {
			return text, nil
		}

		s.logger.Error().Err(err).Str("provider", provider.Name()).Msg("provider exhausted, falling back")
	}

	return "", ErrAllProvidersFailed
}

func (s *gradingService) callWithRetry(ctx context.Context, provider ai.Provider, prompt string, opts ai.CompletionOptions) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= s.retryAttempts; attempt++ {
		text, err := provider.Complete(ctx, prompt, opts)
		if err == nil {
			return text, nil
		}

		lastErr = err
		s.logger.Warn().Err(err).
			Str("provider", provider.Name()).
			Int("attempt", attempt).
			Msg("provider call failed")

		if !ai.IsTransient(err) {
			break
		}

		if attempt < s.retryAttempts {
			if err := s.wait(ctx); err != nil {
				return "", err
			}
		}
	}

	return "", lastErr
}

func (s *gradingService) wait(ctx context.Context) error {
	if s.retryDelay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(s.retryDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
