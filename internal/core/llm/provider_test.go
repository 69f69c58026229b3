package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProviderRequiresKey(t *testing.T) {
	_, err := NewProvider(&ProviderConfig{Type: ProviderGemini})
	assert.Error(t, err)

	_, err = NewProvider(&ProviderConfig{Type: "watson", APIKey: "k"})
	assert.Error(t, err)

	p, err := NewProvider(&ProviderConfig{Type: ProviderGroq, APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "Groq", p.GetProviderName())
}

func TestInferProviderType(t *testing.T) {
	tests := map[string]ProviderType{
		"gemini-2.0-flash":           ProviderGemini,
		"claude-3-5-sonnet-20241022": ProviderClaude,
		"gpt-4o-mini":                ProviderOpenAI,
		"deepseek-chat":              ProviderDeepSeek,
		"llama-3.1-8b-instant":       ProviderGroq,
		"":                           ProviderOpenAI,
	}
	for model, want := range tests {
		assert.Equal(t, want, InferProviderType(model, ProviderOpenAI), model)
	}
	assert.Equal(t, ProviderGemini, InferProviderType("custom", ""))
}

func TestParseProviderType(t *testing.T) {
	pt, err := ParseProviderType(" Claude ")
	require.NoError(t, err)
	assert.Equal(t, ProviderClaude, pt)

	_, err = ParseProviderType("bard")
	assert.Error(t, err)
}

func TestGeminiProvider(t *testing.T) {
	var got geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-2.0-flash:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"{\"action\":\"message\"}"}]}}]}`)
	}))
	defer srv.Close()

	p, err := NewProvider(&ProviderConfig{
		Type:        ProviderGemini,
		APIKey:      "secret",
		Model:       "gemini-2.0-flash",
		BaseURL:     srv.URL,
		Temperature: 0.2,
		JSONMode:    true,
	})
	require.NoError(t, err)

	out, err := p.GenerateResponse(context.Background(), "system rules", "hello")
	require.NoError(t, err)
	assert.Equal(t, `{"action":"message"}`, out)

	require.NotNil(t, got.SystemInstruction)
	assert.Equal(t, "system rules", got.SystemInstruction.Parts[0].Text)
	assert.Equal(t, "hello", got.Contents[0].Parts[0].Text)
	assert.Equal(t, "application/json", got.GenerationConfig.ResponseMimeType)
	assert.InDelta(t, 0.2, got.GenerationConfig.Temperature, 1e-6)
}

func TestGeminiProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":{"message":"API key not valid"}}`)
	}))
	defer srv.Close()

	p := NewGeminiProvider(&ProviderConfig{APIKey: "bad", BaseURL: srv.URL, Timeout: defaultTimeout})
	_, err := p.GenerateResponse(context.Background(), "", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestClaudeProviderJSONMode(t *testing.T) {
	var got claudeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		io.WriteString(w, `{"content":[{"text":"\"action\":\"navigate\"}"}]}`)
	}))
	defer srv.Close()

	p, err := NewProvider(&ProviderConfig{Type: ProviderClaude, APIKey: "key", BaseURL: srv.URL, JSONMode: true})
	require.NoError(t, err)

	out, err := p.GenerateResponse(context.Background(), "rules", "go to reports")
	require.NoError(t, err)
	assert.JSONEq(t, `{"action":"navigate"}`, out)
	assert.Equal(t, "rules", got.System)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "assistant", got.Messages[1].Role)
}

func TestOpenAICompatibleProvider(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{}"},"finish_reason":"stop"}]}`)
	}))
	defer srv.Close()

	svc, err := NewService(&ProviderConfig{
		Type:     ProviderDeepSeek,
		APIKey:   "sk-test",
		BaseURL:  srv.URL,
		JSONMode: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "DeepSeek", svc.GetProviderName())

	out, err := svc.GenerateResponse(context.Background(), "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, "{}", out)
	assert.Equal(t, "deepseek-chat", got["model"])
	format, ok := got["response_format"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "json_object", format["type"])
}

func TestServiceSurfacesProviderErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":{"message":"invalid api key","type":"invalid_request_error"}}`)
	}))
	defer srv.Close()

	svc, err := NewService(&ProviderConfig{Type: ProviderGroq, APIKey: "bad", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = svc.GenerateResponse(context.Background(), "sys", "user")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "Groq error: "), err.Error())
	assert.Contains(t, err.Error(), "invalid api key")
}
