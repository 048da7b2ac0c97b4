package groq

import (
	"context"

	"github.com/rapidanswer/rapidanswer-core/core/llms"
)

// Client is a configured Groq chat-completions client.
type Client struct {
	apiKey string
	model  string
}

type ClientOption func(*Client)

// WithModel overrides the default model.
func WithModel(model string) ClientOption {
	return func(c *Client) { c.model = model }
}

func NewClient(apiKey string, opts ...ClientOption) *Client {
	client := &Client{apiKey: apiKey, model: DefaultModel}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// PromptWithStream prepares a streamed reply for the given prompt.
func (c *Client) PromptWithStream(ctx context.Context, prompt string, opts ...llms.StreamingPromptOption) llms.Stream {
	return PromptWithStream(ctx, c.apiKey, c.model, prompt, "", opts...)
}
