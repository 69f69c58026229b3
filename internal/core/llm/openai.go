package llm

import (
	"context"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// chatProvider talks to any OpenAI-compatible chat completions API
type chatProvider struct {
	name        string
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	jsonMode    bool
}

func newChatProvider(name, defaultBaseURL, defaultModel string, cfg *ProviderConfig) *chatProvider {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.7
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2048
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if defaultBaseURL != "" {
		config.BaseURL = defaultBaseURL
	}
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	config.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &chatProvider{
		name:        name,
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		jsonMode:    cfg.JSONMode,
	}
}

func (p *chatProvider) GetProviderName() string {
	return p.name
}

func (p *chatProvider) GenerateResponse(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
	}
	if p.jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%s error: %w", p.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from %s", p.name)
	}
	return resp.Choices[0].Message.Content, nil
}

type OpenAIProvider struct {
	*chatProvider
}

func NewOpenAIProvider(cfg *ProviderConfig) *OpenAIProvider {
	return &OpenAIProvider{newChatProvider("OpenAI", "", "gpt-4o-mini", cfg)}
}
