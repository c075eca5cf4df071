// internal/mcp/llm/openai.go
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"dca-reserves/internal/config"
)

// Client kontrak minimal yang dipakai router MCP.
type Client interface {
	// Complete jawaban teks bebas (dipakai chooser tool).
	Complete(ctx context.Context, system, prompt string) (string, error)
	// CompleteJSON jawaban berupa JSON object valid (JSON mode).
	CompleteJSON(ctx context.Context, user, system string) (string, error)
	Model() string
}

// OpenAIClient implementasi Client berbasis go-openai.
type OpenAIClient struct {
	api   *openai.Client
	model string
}

// ErrNoAPIKey dikembalikan kalau OPENAI_API_KEY kosong; router lalu jalan tanpa LLM.
var ErrNoAPIKey = errors.New("OPENAI_API_KEY not set")

// New membuat client dari config.LLM. BaseURL opsional (proxy/self-hosted endpoint).
func New(c config.LLM) (*OpenAIClient, error) {
	key := strings.TrimSpace(c.APIKey)
	if key == "" {
		return nil, ErrNoAPIKey
	}
	cfg := openai.DefaultConfig(key)
	if base := strings.TrimSpace(c.APIBase); base != "" {
		cfg.BaseURL = base
	}
	model := strings.TrimSpace(c.Model)
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIClient{api: openai.NewClientWithConfig(cfg), model: model}, nil
}

func (c *OpenAIClient) Model() string { return c.model }

func (c *OpenAIClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.0,
	}

	var cancel context.CancelFunc
	if _, ok := ctx.Deadline(); !ok {
		ctx, cancel = context.WithTimeout(ctx, 8*time.Second)
		defer cancel()
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (c *OpenAIClient) CompleteJSON(ctx context.Context, user, system string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	var cancel context.CancelFunc
	if _, ok := ctx.Deadline(); !ok {
		ctx, cancel = context.WithTimeout(ctx, 8*time.Second)
		defer cancel()
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai completion (json): %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices")
	}
	return StripFences(resp.Choices[0].Message.Content), nil
}

// StripFences membuang ```json ... ``` kalau model menyelipkannya.
func StripFences(s string) string {
	out := strings.TrimSpace(s)
	out = strings.TrimPrefix(out, "```json")
	out = strings.TrimPrefix(out, "```JSON")
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSuffix(out, "```")
	return strings.TrimSpace(out)
}
