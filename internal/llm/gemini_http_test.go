package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/genai"

	"github.com/dvloznov/finanzas-ai/internal/config"
)

func newTestGeminiProvider(t *testing.T, handler http.HandlerFunc) *geminiProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := newGeminiProvider(context.Background(), config.ModelConfig{
		APIKey:  "g-test",
		BaseURL: srv.URL,
		Model:   "gemini-test",
	})
	if err != nil {
		t.Fatalf("newGeminiProvider() error = %v", err)
	}
	return p
}

type geminiRequest struct {
	Contents []struct {
		Role  string `json:"role"`
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
	GenerationConfig struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

func TestGeminiProvider_ChatCompletion(t *testing.T) {
	var got geminiRequest
	p := newTestGeminiProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models/gemini-test:generateContent") {
			t.Errorf("path = %q", r.URL.Path)
		}
		if key := r.Header.Get("x-goog-api-key"); key != "g-test" {
			t.Errorf("x-goog-api-key = %q", key)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"candidates": [
				{"content": {"role": "model", "parts": [{"text": "Vas muy bien"}]}, "finishReason": "STOP"}
			]
		}`))
	})

	messages := []Message{
		{Role: RoleSystem, Content: "Eres FinBot"},
		{Role: RoleUser, Content: "hola"},
		{Role: RoleAssistant, Content: "¡Hola!"},
		{Role: RoleUser, Content: "¿cómo voy?"},
	}

	text, err := p.ChatCompletion(context.Background(), messages, 0.5, 800)
	if err != nil {
		t.Fatalf("ChatCompletion() error = %v", err)
	}
	if text != "Vas muy bien" {
		t.Errorf("text = %q", text)
	}

	if got.GenerationConfig.Temperature != 0.5 || got.GenerationConfig.MaxOutputTokens != 800 {
		t.Errorf("generationConfig = %+v, want temperature 0.5 and 800 tokens", got.GenerationConfig)
	}

	wantTurns := []struct{ role, text string }{
		{"user", "hola"},
		{"model", "¡Hola!"},
		{"user", "Eres FinBot\n\n¿cómo voy?"},
	}
	if len(got.Contents) != len(wantTurns) {
		t.Fatalf("contents = %+v, want %d turns", got.Contents, len(wantTurns))
	}
	for i, want := range wantTurns {
		c := got.Contents[i]
		if c.Role != want.role || len(c.Parts) != 1 || c.Parts[0].Text != want.text {
			t.Errorf("contents[%d] = %+v, want role %q text %q", i, c, want.role, want.text)
		}
	}
}

func TestGeminiProvider_ServerError(t *testing.T) {
	p := newTestGeminiProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": {"code": 500, "message": "backend down", "status": "INTERNAL"}}`))
	})

	_, err := p.ChatCompletion(context.Background(), []Message{{Role: RoleUser, Content: "hola"}}, 0.7, 100)
	if err == nil {
		t.Fatal("expected error")
	}

	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("error %v is not a ProviderError", err)
	}
	if pe.Backend != config.ProviderGemini {
		t.Errorf("Backend = %q, want gemini", pe.Backend)
	}
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != http.StatusInternalServerError {
		t.Errorf("expected wrapped genai.APIError with code 500, got %v", err)
	}
	if !strings.Contains(err.Error(), "backend down") {
		t.Errorf("error text = %q", err.Error())
	}
}

func TestGeminiProvider_NoCandidates(t *testing.T) {
	p := newTestGeminiProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates": [], "promptFeedback": {"blockReason": "SAFETY"}}`))
	})

	text, err := p.ChatCompletion(context.Background(), []Message{{Role: RoleUser, Content: "hola"}}, 0.7, 100)
	if err == nil {
		t.Fatalf("expected error, got text %q", text)
	}
	var pe *ProviderError
	if !errors.As(err, &pe) || !errors.Is(err, errEmptyResponse) {
		t.Errorf("error = %v, want ProviderError wrapping errEmptyResponse", err)
	}
}
