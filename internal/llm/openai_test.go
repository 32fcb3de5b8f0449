package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dvloznov/finanzas-ai/internal/config"
)

func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc) *openAIProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return newOpenAIProvider(config.ProviderDeepSeek, config.ModelConfig{
		APIKey:  "sk-test",
		BaseURL: srv.URL + "/v1",
		Model:   "deepseek-chat",
	})
}

func TestOpenAIProvider_ChatCompletion(t *testing.T) {
	var got struct {
		Model       string    `json:"model"`
		Messages    []Message `json:"messages"`
		Temperature float64   `json:"temperature"`
		MaxTokens   int       `json:"max_tokens"`
	}

	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %q, want /v1/chat/completions", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("Authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "deepseek-chat",
			"choices": [
				{"index": 0, "message": {"role": "assistant", "content": "Primera"}, "finish_reason": "stop"},
				{"index": 1, "message": {"role": "assistant", "content": "Segunda"}, "finish_reason": "stop"}
			]
		}`))
	})

	messages := []Message{
		{Role: RoleSystem, Content: "sys"},
		{Role: RoleUser, Content: "hola"},
	}
	text, err := p.ChatCompletion(context.Background(), messages, 0.5, 256)
	if err != nil {
		t.Fatalf("ChatCompletion() error = %v", err)
	}

	if text != "Primera" {
		t.Errorf("text = %q, want Primera", text)
	}
	if got.Model != "deepseek-chat" {
		t.Errorf("model = %q", got.Model)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != RoleSystem || got.Messages[1].Content != "hola" {
		t.Errorf("messages not passed through unchanged: %+v", got.Messages)
	}
	if got.Temperature != 0.5 {
		t.Errorf("temperature = %v, want 0.5", got.Temperature)
	}
	if got.MaxTokens != 256 {
		t.Errorf("max_tokens = %d, want 256", got.MaxTokens)
	}
}

func TestOpenAIProvider_VendorErrorIsWrapped(t *testing.T) {
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "Authentication Fails", "type": "authentication_error"}}`))
	})

	_, err := p.ChatCompletion(context.Background(), []Message{{Role: RoleUser, Content: "hola"}}, 0.7, 100)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ProviderError, got %T", err)
	}
	if pe.Backend != config.ProviderDeepSeek {
		t.Errorf("Backend = %q, want %q", pe.Backend, config.ProviderDeepSeek)
	}
	if !strings.Contains(err.Error(), "deepseek") || !strings.Contains(err.Error(), "Authentication Fails") {
		t.Errorf("error text = %q, want backend name and vendor message", err.Error())
	}
}

func TestOpenAIProvider_NoChoices(t *testing.T) {
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "chatcmpl-2", "object": "chat.completion", "choices": []}`))
	})

	_, err := p.ChatCompletion(context.Background(), []Message{{Role: RoleUser, Content: "hola"}}, 0.7, 100)
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ProviderError, got %v", err)
	}
}
