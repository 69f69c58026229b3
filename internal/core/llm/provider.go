package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// LLMProvider is implemented by every text-generation backend
type LLMProvider interface {
	GenerateResponse(ctx context.Context, systemPrompt, userMessage string) (string, error)
	GetProviderName() string
}

// ProviderType untuk factory
type ProviderType string

const (
	ProviderOpenAI   ProviderType = "openai"
	ProviderGemini   ProviderType = "gemini"
	ProviderGroq     ProviderType = "groq"
	ProviderDeepSeek ProviderType = "deepseek"
	ProviderClaude   ProviderType = "claude"
)

const defaultTimeout = 60 * time.Second

// ProviderConfig untuk create provider
type ProviderConfig struct {
	Type   ProviderType
	APIKey string
	Model  string

	// BaseURL overrides the provider endpoint (proxies, tests)
	BaseURL string

	Temperature float32
	MaxTokens   int
	Timeout     time.Duration

	// JSONMode asks the provider for a bare JSON object reply
	JSONMode bool
}

// NewProvider factory untuk create LLM provider
func NewProvider(cfg *ProviderConfig) (LLMProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("API key is required for %s", cfg.Type)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	switch cfg.Type {
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg), nil
	case ProviderGemini:
		return NewGeminiProvider(cfg), nil
	case ProviderGroq:
		return NewGroqProvider(cfg), nil
	case ProviderDeepSeek:
		return NewDeepSeekProvider(cfg), nil
	case ProviderClaude:
		return NewClaudeProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider type: %s", cfg.Type)
	}
}

// ParseProviderType validates a provider name such as "gemini"
func ParseProviderType(s string) (ProviderType, error) {
	t := ProviderType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case ProviderOpenAI, ProviderGemini, ProviderGroq, ProviderDeepSeek, ProviderClaude:
		return t, nil
	}
	return "", fmt.Errorf("unknown LLM provider type: %s", s)
}

// InferProviderType picks the backend from a model name, falling back when
// the name does not identify one.
func InferProviderType(model string, fallback ProviderType) ProviderType {
	m := strings.ToLower(strings.TrimSpace(model))
	switch {
	case strings.HasPrefix(m, "gemini"):
		return ProviderGemini
	case strings.HasPrefix(m, "claude"):
		return ProviderClaude
	case strings.HasPrefix(m, "deepseek"):
		return ProviderDeepSeek
	case strings.HasPrefix(m, "gpt-"), strings.HasPrefix(m, "o1"), strings.HasPrefix(m, "o3"), strings.HasPrefix(m, "o4"):
		return ProviderOpenAI
	case strings.HasPrefix(m, "llama"), strings.HasPrefix(m, "mixtral"), strings.HasPrefix(m, "gemma"):
		return ProviderGroq
	}
	if fallback == "" {
		return ProviderGemini
	}
	return fallback
}
