package llm

import (
	"context"
	"time"

	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/utils"
)

// Service wraps LLM provider untuk dependency injection
type Service struct {
	provider LLMProvider
	model    string
}

// NewService builds a provider from cfg
func NewService(cfg *ProviderConfig) (*Service, error) {
	provider, err := NewProvider(cfg)
	if err != nil {
		return nil, err
	}

	utils.LogDebug("using LLM provider", map[string]interface{}{
		"provider": provider.GetProviderName(),
		"model":    cfg.Model,
	})
	return &Service{provider: provider, model: cfg.Model}, nil
}

// GenerateResponse generates AI response
func (s *Service) GenerateResponse(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	start := time.Now()
	reply, err := s.provider.GenerateResponse(ctx, systemPrompt, userMessage)
	if err != nil {
		utils.LogWarn("LLM request failed", map[string]interface{}{
			"provider":    s.provider.GetProviderName(),
			"model":       s.model,
			"duration_ms": time.Since(start).Milliseconds(),
			"error":       err.Error(),
		})
		return "", err
	}

	utils.LogDebug("LLM reply received", map[string]interface{}{
		"provider":    s.provider.GetProviderName(),
		"model":       s.model,
		"duration_ms": time.Since(start).Milliseconds(),
		"reply_bytes": len(reply),
	})
	return reply, nil
}

// GetProviderName returns current provider name
func (s *Service) GetProviderName() string {
	return s.provider.GetProviderName()
}
