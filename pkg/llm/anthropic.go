package llm

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"
)

const defaultMaxTokens = 4096

// AnthropicCapability adapts the Anthropic Messages API to Capability.
type AnthropicCapability struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// NewAnthropicCapability creates an Anthropic-backed capability. With
// no APIKey the SDK falls back to ANTHROPIC_API_KEY.
func NewAnthropicCapability(opts Options) *AnthropicCapability {
	client := anthropic.NewClient()
	if opts.APIKey != "" {
		client = anthropic.NewClient(option.WithAPIKey(opts.APIKey))
	}

	model := anthropic.Model(opts.Model)
	if opts.Model == "" {
		model = anthropic.ModelClaude3_7SonnetLatest
	}

	maxTokens := int64(opts.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &AnthropicCapability{client: client, model: model, maxTokens: maxTokens}
}

// Generate sends a single-turn prompt and returns the concatenated text
// blocks of the response. Transient failures are retried a bounded
// number of times; the caller's context bounds the whole call.
func (c *AnthropicCapability) Generate(ctx context.Context, prompt string) (string, error) {
	var out string
	err := retry.Do(
		func() error {
			resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
				Model:     c.model,
				MaxTokens: c.maxTokens,
				Messages: []anthropic.MessageParam{
					anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
				},
			})
			if err != nil {
				return err
			}
			var b strings.Builder
			for _, block := range resp.Content {
				if text, ok := block.AsAny().(anthropic.TextBlock); ok {
					b.WriteString(text.Text)
				}
			}
			out = b.String()
			return nil
		},
		retry.Attempts(3),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return "", errors.Wrap(err, "anthropic generate")
	}
	return out, nil
}

// SupportsEmbedding is false: the Messages API has no embedding endpoint.
func (c *AnthropicCapability) SupportsEmbedding() bool { return false }
