package ai

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Option keys each provider constructor understands. Anything else in the
// option bag is dropped before construction so configuration drift in
// deployment manifests cannot break client startup.
var acceptedOptions = map[string]map[string]bool{
	"openai": {
		"model": true,
	},
	"anthropic": {
		"model":    true,
		"base_url": true,
	},
}

// NewProvider constructs the named provider from a credential and a loose
// option bag. Unsupported option keys are filtered out with a debug log
// rather than failing construction.
func NewProvider(name, apiKey string, options map[string]string, logger zerolog.Logger) (Provider, error) {
	accepted, ok := acceptedOptions[name]
	if !ok {
		return nil, fmt.Errorf("unknown ai provider %q", name)
	}

	filtered := make(map[string]string, len(options))
	for key, value := range options {
		if !accepted[key] {
			logger.Debug().Str("provider", name).Str("option", key).Msg("dropping unsupported provider option")
			continue
		}
		filtered[key] = value
	}

	switch name {
	case "openai":
		return NewOpenAIProvider(OpenAIConfig{
			APIKey: apiKey,
			Model:  filtered["model"],
			Logger: logger,
		})
	case "anthropic":
		return NewAnthropicProvider(AnthropicConfig{
			APIKey:  apiKey,
			Model:   filtered["model"],
			BaseURL: filtered["base_url"],
			Logger:  logger,
		})
	default:
		return nil, fmt.Errorf("unknown ai provider %q", name)
	}
}
