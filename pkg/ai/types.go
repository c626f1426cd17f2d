package ai

import (
	"context"
	"errors"
	"fmt"
)

// CompletionOptions carries the fixed sampling parameters for a provider call.
type CompletionOptions struct {
	MaxTokens   int
	Temperature float32
}

// Provider is a text-completion backend capable of serving grading prompts.
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error)
}

// ErrNoScoreFound indicates a provider response contained no parseable digits.
var ErrNoScoreFound = errors.New("no numeric score found in response")

// CallError wraps a failed provider call and records whether it is worth retrying.
type CallError struct {
	Provider  string
	Transient bool
	Err       error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s call failed: %v", e.Provider, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is a provider call failure that may succeed on retry.
func IsTransient(err error) bool {
	var callErr *CallError
	if errors.As(err, &callErr) {
		return callErr.Transient
	}
	return false
}
