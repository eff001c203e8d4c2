package llm

import (
	"context"
	"os"

	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAICapability adapts the OpenAI chat completion API to Capability.
type OpenAICapability struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// NewOpenAICapability creates an OpenAI-backed capability. With no
// APIKey the OPENAI_API_KEY environment variable is used.
func NewOpenAICapability(opts Options) *OpenAICapability {
	key := opts.APIKey
	if key == "" {
		key = os.Getenv("OPENAI_API_KEY")
	}

	model := opts.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &OpenAICapability{client: openai.NewClient(key), model: model, maxTokens: maxTokens}
}

// Generate sends a single-turn prompt and returns the first choice's
// content, retrying transient failures a bounded number of times.
func (c *OpenAICapability) Generate(ctx context.Context, prompt string) (string, error) {
	var out string
	err := retry.Do(
		func() error {
			resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
				Model:     c.model,
				MaxTokens: c.maxTokens,
				Messages: []openai.ChatCompletionMessage{
					{Role: openai.ChatMessageRoleUser, Content: prompt},
				},
			})
			if err != nil {
				return err
			}
			if len(resp.Choices) == 0 {
				return errors.New("empty completion response")
			}
			out = resp.Choices[0].Message.Content
			return nil
		},
		retry.Attempts(3),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return "", errors.Wrap(err, "openai generate")
	}
	return out, nil
}

// SupportsEmbedding is true: the embeddings endpoint exists, though
// search currently still uses text fallback.
func (c *OpenAICapability) SupportsEmbedding() bool { return true }
