// Package llm defines the narrow LLM capability surface the skill
// engine consumes: a request/response Generate call plus an embedding
// capability marker, with concrete adapters for Anthropic and OpenAI.
// Callers own timeouts via the context; adapters never stream.
package llm

import (
	"context"

	"github.com/pkg/errors"
)

// Capability is the provider boundary consumed by search and
// validation. SupportsEmbedding advertises an embedding API; consumers
// currently treat it as informational only.
type Capability interface {
	Generate(ctx context.Context, prompt string) (string, error)
	SupportsEmbedding() bool
}

// Options configures a provider adapter.
type Options struct {
	Model     string
	APIKey    string
	MaxTokens int
}

// NewCapability constructs a provider adapter by name.
func NewCapability(provider string, opts Options) (Capability, error) {
	switch provider {
	case "anthropic":
		return NewAnthropicCapability(opts), nil
	case "openai":
		return NewOpenAICapability(opts), nil
	default:
		return nil, errors.Errorf("unsupported provider: %s", provider)
	}
}
