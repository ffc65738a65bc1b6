// Package openai wraps an OpenAI-compatible chat completion endpoint used to
// rewrite the configured auto-reply text.
package openai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const defaultModel = "gpt-4o-mini"

// Client is a chat completion client
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a new client. baseURL may point at any OpenAI-compatible
// endpoint; empty keeps the library default.
func NewClient(apiKey, baseURL, model string) *Client {
	if model == "" {
		model = defaultModel
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// Chat sends a system/user message pair and returns the response text
func (c *Client) Chat(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
		Temperature: 0.7,
		MaxTokens:   200, // replies are a sentence or two
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices")
	}

	return resp.Choices[0].Message.Content, nil
}
