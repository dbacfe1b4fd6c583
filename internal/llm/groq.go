package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/conneroisu/groq-go"
)

const defaultMaxTokens = 150

// GroqClient is a single-shot text completion client backed by Groq.
type GroqClient struct {
	client       *groq.Client
	model        groq.ChatModel
	maxTokens    int
	systemPrompt string
}

type GroqOptions struct {
	Model        string
	MaxTokens    int
	SystemPrompt string
	BaseURL      string
}

func NewGroqClient(apiKey string, opts GroqOptions) (*GroqClient, error) {
	var clientOpts []groq.Opts
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, groq.WithBaseURL(opts.BaseURL))
	}

	client, err := groq.NewClient(apiKey, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create groq client: %w", err)
	}

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &GroqClient{
		client:       client,
		model:        groq.ChatModel(opts.Model),
		maxTokens:    maxTokens,
		systemPrompt: opts.SystemPrompt,
	}, nil
}

func (c *GroqClient) Model() string {
	return string(c.model)
}

func (c *GroqClient) Complete(ctx context.Context, prompt string) (string, error) {
	messages := make([]groq.ChatCompletionMessage, 0, 2)
	if c.systemPrompt != "" {
		messages = append(messages, groq.ChatCompletionMessage{Role: groq.RoleSystem, Content: c.systemPrompt})
	}
	messages = append(messages, groq.ChatCompletionMessage{Role: groq.RoleUser, Content: prompt})

	resp, err := c.client.ChatCompletion(ctx, groq.ChatCompletionRequest{
		Model:     c.model,
		Messages:  messages,
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response")
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("empty response")
	}

	slog.Debug("Completion received", "model", c.model, "chars", len(content))
	return content, nil
}
