// Package config loads service settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Provider names accepted in AI_PROVIDER.
const (
	ProviderGemini   = "gemini"
	ProviderDeepSeek = "deepseek"
)

// Cache modes accepted in CATEGORY_CACHE.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Config is the full service configuration.
type Config struct {
	Server    ServerConfig
	AI        AIConfig
	Log       LogConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port        string
	CORSOrigins []string
}

// AIConfig selects the LLM backend and carries the credentials for both.
type AIConfig struct {
	Provider string
	Gemini   ModelConfig
	DeepSeek ModelConfig
}

// ModelConfig describes one vendor endpoint.
type ModelConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// LogConfig controls the zerolog output.
type LogConfig struct {
	Level  string
	Format string
}

// CacheConfig controls the categorization cache.
type CacheConfig struct {
	Mode      string
	TTL       time.Duration
	RedisAddr string
}

// RateLimitConfig controls the per-client limiter on /api/ai routes.
// RPS <= 0 disables limiting.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// APIKey returns the credential of the selected provider.
func (c AIConfig) APIKey() string {
	switch c.Provider {
	case ProviderGemini:
		return c.Gemini.APIKey
	case ProviderDeepSeek:
		return c.DeepSeek.APIKey
	}
	return ""
}

// Selected returns the model config of the selected provider.
func (c AIConfig) Selected() ModelConfig {
	if c.Provider == ProviderDeepSeek {
		return c.DeepSeek
	}
	return c.Gemini
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8000")
	v.SetDefault("cors_origins", "http://localhost:3000,http://localhost:3001")
	v.SetDefault("ai_provider", ProviderGemini)
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("gemini_model", "gemini-2.5-flash")
	v.SetDefault("deepseek_api_key", "")
	v.SetDefault("deepseek_base_url", "https://api.deepseek.com/v1")
	v.SetDefault("deepseek_model", "deepseek-chat")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("category_cache", CacheMemory)
	v.SetDefault("category_cache_ttl", "24h")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("rate_limit_rps", 2.0)
	v.SetDefault("rate_limit_burst", 10)
}

// Load reads .env (if present) and the process environment.
// Environment variables always win over .env entries.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        strings.TrimSpace(v.GetString("port")),
			CORSOrigins: splitList(v.GetString("cors_origins")),
		},
		AI: AIConfig{
			Provider: strings.ToLower(strings.TrimSpace(v.GetString("ai_provider"))),
			Gemini: ModelConfig{
				APIKey: strings.TrimSpace(v.GetString("gemini_api_key")),
				Model:  v.GetString("gemini_model"),
			},
			DeepSeek: ModelConfig{
				APIKey:  strings.TrimSpace(v.GetString("deepseek_api_key")),
				BaseURL: v.GetString("deepseek_base_url"),
				Model:   v.GetString("deepseek_model"),
			},
		},
		Log: LogConfig{
			Level:  v.GetString("log_level"),
			Format: v.GetString("log_format"),
		},
		Cache: CacheConfig{
			Mode:      strings.ToLower(strings.TrimSpace(v.GetString("category_cache"))),
			TTL:       v.GetDuration("category_cache_ttl"),
			RedisAddr: v.GetString("redis_addr"),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("rate_limit_rps"),
			Burst: v.GetInt("rate_limit_burst"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("config: PORT must not be empty")
	}
	switch c.Cache.Mode {
	case CacheMemory, CacheRedis, CacheNone:
	default:
		return fmt.Errorf("config: unknown CATEGORY_CACHE %q (want memory, redis or none)", c.Cache.Mode)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("config: CATEGORY_CACHE_TTL must be positive")
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst < 1 {
		return fmt.Errorf("config: RATE_LIMIT_BURST must be at least 1 when limiting is enabled")
	}
	return nil
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
