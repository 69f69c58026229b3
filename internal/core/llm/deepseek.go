package llm

// DeepSeekProvider uses DeepSeek's OpenAI-compatible endpoint
type DeepSeekProvider struct {
	*chatProvider
}

func NewDeepSeekProvider(cfg *ProviderConfig) *DeepSeekProvider {
	return &DeepSeekProvider{newChatProvider("DeepSeek", "https://api.deepseek.com", "deepseek-chat", cfg)}
}
