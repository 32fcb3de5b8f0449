package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/dvloznov/finanzas-ai/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.AIConfig
		wantErr  error
		wantName string
	}{
		{
			name:    "gemini without key",
			cfg:     config.AIConfig{Provider: config.ProviderGemini, DeepSeek: config.ModelConfig{APIKey: "sk"}},
			wantErr: ErrMissingCredential,
		},
		{
			name:    "deepseek without key",
			cfg:     config.AIConfig{Provider: config.ProviderDeepSeek, Gemini: config.ModelConfig{APIKey: "g"}},
			wantErr: ErrMissingCredential,
		},
		{
			name:    "unknown provider",
			cfg:     config.AIConfig{Provider: "claude"},
			wantErr: ErrUnknownProvider,
		},
		{
			name: "deepseek",
			cfg: config.AIConfig{
				Provider: config.ProviderDeepSeek,
				DeepSeek: config.ModelConfig{APIKey: "sk", BaseURL: "https://api.deepseek.com/v1", Model: "deepseek-chat"},
			},
			wantName: config.ProviderDeepSeek,
		},
		{
			name: "gemini",
			cfg: config.AIConfig{
				Provider: config.ProviderGemini,
				Gemini:   config.ModelConfig{APIKey: "g-key"},
			},
			wantName: config.ProviderGemini,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(context.Background(), tt.cfg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if p.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", p.Name(), tt.wantName)
			}
		})
	}
}

func TestNew_GeminiDefaultModel(t *testing.T) {
	p, err := New(context.Background(), config.AIConfig{
		Provider: config.ProviderGemini,
		Gemini:   config.ModelConfig{APIKey: "g-key"},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if p.Model() != DefaultGeminiModel {
		t.Errorf("Model() = %q, want %q", p.Model(), DefaultGeminiModel)
	}
}

func TestProviderError(t *testing.T) {
	inner := errors.New("timeout")
	err := wrapVendorError("gemini", inner)

	if err.Error() != "error in gemini API: timeout" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected wrapped error to unwrap to the vendor error")
	}
	if again := wrapVendorError("deepseek", err); again != err {
		t.Error("expected an existing ProviderError not to be wrapped twice")
	}
	if wrapVendorError("gemini", nil) != nil {
		t.Error("expected nil for nil error")
	}
}
