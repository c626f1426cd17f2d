package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newAnthropicTestProvider(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	provider, err := NewAnthropicProvider(AnthropicConfig{
		APIKey:     "sk-ant-test",
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
		Logger:     zerolog.Nop(),
	})
	require.NoError(t, err)

	return provider
}

func TestAnthropicCompleteReturnsText(t *testing.T) {
	provider := newAnthropicTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "sk-ant-test", r.Header.Get("x-api-key"))
		require.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var req anthropicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		require.Equal(t, "user", req.Messages[0].Role)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":" 8 "}]}`))
	})

	text, err := provider.Complete(context.Background(), "grade this", CompletionOptions{MaxTokens: 10, Temperature: 0.2})
	require.NoError(t, err)
	require.Equal(t, "8", text)
}

func TestAnthropicCompleteLogsRequestsAtDebug(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"9"}]}`))
	}))
	t.Cleanup(server.Close)

	var buf bytes.Buffer
	provider, err := NewAnthropicProvider(AnthropicConfig{
		APIKey:     "sk-ant-test",
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
		Logger:     zerolog.New(&buf).Level(zerolog.DebugLevel),
	})
	require.NoError(t, err)

	_, err = provider.Complete(context.Background(), "grade this", CompletionOptions{})
	require.NoError(t, err)

	logs := buf.String()
	require.Contains(t, logs, "anthropic_provider")
	require.Contains(t, logs, "sending messages request")
	require.Contains(t, logs, "messages request succeeded")
}

func TestAnthropicCompleteRateLimitIsTransient(t *testing.T) {
	provider := newAnthropicTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"type":"rate_limit_error","message":"slow down"}}`))
	})

	_, err := provider.Complete(context.Background(), "grade this", CompletionOptions{})
	require.Error(t, err)
	require.True(t, IsTransient(err))
}

func TestAnthropicCompleteBadRequestIsTerminal(t *testing.T) {
	provider := newAnthropicTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"bad prompt"}}`))
	})

	_, err := provider.Complete(context.Background(), "grade this", CompletionOptions{})
	require.Error(t, err)
	require.False(t, IsTransient(err))
}

func TestAnthropicCompleteEmptyContent(t *testing.T) {
	provider := newAnthropicTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	})

	_, err := provider.Complete(context.Background(), "grade this", CompletionOptions{})
	require.Error(t, err)
	require.False(t, IsTransient(err))
}
