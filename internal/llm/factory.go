package llm

import (
	"fmt"
	"strings"
)

// NewProvider creates a new completion provider based on configuration.
// An empty provider name returns (nil, nil): LLM-backed components are
// disabled and callers degrade to their non-LLM behavior.
func NewProvider(config Config) (Provider, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "openai":
		return NewOpenAIProvider(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: anthropic, openai)", config.Provider)
	}
}
