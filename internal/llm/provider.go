package llm

import (
	"context"

	"github.com/trackevents/trackevents/internal/model"
)

// Provider defines the interface for text-completion providers. The
// pipeline treats the call as a black box: prompt in, free-form text out.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete submits a prompt and returns the raw completion text
	Complete(ctx context.Context, req Request) (*Completion, error)
}

// Request contains the input for one completion call.
type Request struct {
	// System is the optional system prompt
	System string

	// Prompt is the user-facing prompt text
	Prompt string

	// Model overrides the configured model (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// Completion contains the provider's output.
type Completion struct {
	// Text is the raw completion text; callers must tolerate JSON,
	// fenced JSON, JSON embedded in prose, or unparsable text
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds provider configuration.
type Config struct {
	// Provider name: "anthropic", "openai", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for the provider
	APIKey string

	// BaseURL for custom endpoints
	BaseURL string

	// Timeout for API requests, in seconds
	Timeout int

	// MaxTokens for response generation
	MaxTokens int
}

// ConfigFromModel converts model.LLMConfig to llm.Config.
func ConfigFromModel(mc model.LLMConfig) Config {
	return Config{
		Provider:  mc.Provider,
		Model:     mc.Model,
		APIKey:    mc.APIKey,
		BaseURL:   mc.BaseURL,
		Timeout:   mc.Timeout,
		MaxTokens: mc.MaxTokens,
	}
}
