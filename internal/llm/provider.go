// Package llm hides the supported chat-completion vendors behind one Provider
// interface and adds JSON-oriented completions on top of it.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dvloznov/finanzas-ai/internal/config"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider produces a completion for an ordered message list.
// The list may start with a single system message.
type Provider interface {
	ChatCompletion(ctx context.Context, messages []Message, temperature float64, maxTokens int) (string, error)

	// Name returns the backend identifier (e.g. "gemini").
	Name() string

	// Model returns the vendor model used for completions.
	Model() string
}

var (
	// ErrMissingCredential is returned by New when the selected backend has no API key.
	ErrMissingCredential = errors.New("missing API key")

	// ErrUnknownProvider is returned by New for an unsupported AI_PROVIDER value.
	ErrUnknownProvider = errors.New("unknown AI provider")
)

// ProviderError wraps any failure of a vendor call.
type ProviderError struct {
	Backend string
	Err     error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("error in %s API: %v", e.Backend, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func wrapVendorError(backend string, err error) error {
	if err == nil {
		return nil
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return err
	}
	return &ProviderError{Backend: backend, Err: err}
}

// New builds the backend selected in cfg. It is meant to be called once at startup.
func New(ctx context.Context, cfg config.AIConfig) (Provider, error) {
	if cfg.Provider != config.ProviderGemini && cfg.Provider != config.ProviderDeepSeek {
		return nil, fmt.Errorf("llm.New: %w: %q", ErrUnknownProvider, cfg.Provider)
	}
	if cfg.APIKey() == "" {
		return nil, fmt.Errorf("llm.New: %w: %s_API_KEY is not configured", ErrMissingCredential, strings.ToUpper(cfg.Provider))
	}

	if cfg.Provider == config.ProviderDeepSeek {
		return newOpenAIProvider(config.ProviderDeepSeek, cfg.Selected()), nil
	}
	p, err := newGeminiProvider(ctx, cfg.Selected())
	if err != nil {
		return nil, fmt.Errorf("llm.New: %w", err)
	}
	return p, nil
}
