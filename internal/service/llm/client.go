// Package llm defines the interface for hosted large-language-model
// clients.
package llm

import "context"

// Client defines the interface for LLM providers (Gemini, mock).
type Client interface {
	// Generate sends a prompt and returns the raw response text.
	Generate(ctx context.Context, prompt string) (string, error)

	// Provider returns the provider name for logging and metrics.
	Provider() string
}
