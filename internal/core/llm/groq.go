package llm

// GroqProvider uses Groq's OpenAI-compatible endpoint
type GroqProvider struct {
	*chatProvider
}

func NewGroqProvider(cfg *ProviderConfig) *GroqProvider {
	return &GroqProvider{newChatProvider("Groq", "https://api.groq.com/openai/v1", "llama-3.1-8b-instant", cfg)}
}
