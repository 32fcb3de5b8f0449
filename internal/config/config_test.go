package config

import (
	"reflect"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AI_PROVIDER", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "8000" {
		t.Errorf("Port = %q, want 8000", cfg.Server.Port)
	}
	if cfg.AI.Provider != ProviderGemini {
		t.Errorf("Provider = %q, want %q", cfg.AI.Provider, ProviderGemini)
	}
	wantOrigins := []string{"http://localhost:3000", "http://localhost:3001"}
	if !reflect.DeepEqual(cfg.Server.CORSOrigins, wantOrigins) {
		t.Errorf("CORSOrigins = %v, want %v", cfg.Server.CORSOrigins, wantOrigins)
	}
	if cfg.AI.DeepSeek.BaseURL != "https://api.deepseek.com/v1" {
		t.Errorf("DeepSeek.BaseURL = %q", cfg.AI.DeepSeek.BaseURL)
	}
	if cfg.Cache.TTL != 24*time.Hour {
		t.Errorf("Cache.TTL = %v, want 24h", cfg.Cache.TTL)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("AI_PROVIDER", " DeepSeek ")
	t.Setenv("DEEPSEEK_API_KEY", "sk-test")
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, ,https://admin.example.com")
	t.Setenv("CATEGORY_CACHE", "none")
	t.Setenv("RATE_LIMIT_RPS", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.AI.Provider != ProviderDeepSeek {
		t.Errorf("Provider = %q, want %q", cfg.AI.Provider, ProviderDeepSeek)
	}
	if cfg.AI.APIKey() != "sk-test" {
		t.Errorf("APIKey() = %q, want sk-test", cfg.AI.APIKey())
	}
	if cfg.AI.Selected().Model != "deepseek-chat" {
		t.Errorf("Selected().Model = %q, want deepseek-chat", cfg.AI.Selected().Model)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Server.Port)
	}
	want := []string{"https://app.example.com", "https://admin.example.com"}
	if !reflect.DeepEqual(cfg.Server.CORSOrigins, want) {
		t.Errorf("CORSOrigins = %v, want %v", cfg.Server.CORSOrigins, want)
	}
	if cfg.Cache.Mode != CacheNone {
		t.Errorf("Cache.Mode = %q, want none", cfg.Cache.Mode)
	}
}

func TestFromViper_Validation(t *testing.T) {
	tests := []struct {
		name    string
		set     map[string]interface{}
		wantErr bool
	}{
		{name: "defaults are valid", set: nil, wantErr: false},
		{name: "unknown cache mode", set: map[string]interface{}{"category_cache": "disk"}, wantErr: true},
		{name: "empty port", set: map[string]interface{}{"port": " "}, wantErr: true},
		{name: "zero ttl", set: map[string]interface{}{"category_cache_ttl": "0s"}, wantErr: true},
		{name: "limiter without burst", set: map[string]interface{}{"rate_limit_burst": 0}, wantErr: true},
		{name: "disabled limiter ignores burst", set: map[string]interface{}{"rate_limit_rps": 0, "rate_limit_burst": 0}, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			setDefaults(v)
			for k, val := range tt.set {
				v.Set(k, val)
			}

			_, err := fromViper(v)
			if (err != nil) != tt.wantErr {
				t.Errorf("fromViper() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAIConfig_APIKeyUnknownProvider(t *testing.T) {
	c := AIConfig{Provider: "mistral", Gemini: ModelConfig{APIKey: "g"}}
	if got := c.APIKey(); got != "" {
		t.Errorf("APIKey() = %q, want empty", got)
	}
}
