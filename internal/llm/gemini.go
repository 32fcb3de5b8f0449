package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/dvloznov/finanzas-ai/internal/config"
)

// DefaultGeminiModel is used when GEMINI_MODEL is empty.
const DefaultGeminiModel = "gemini-2.5-flash"

const geminiRoleModel = "model"

var errEmptyResponse = errors.New("empty response")

// geminiProvider talks to the Gemini API through a single-turn chat session.
type geminiProvider struct {
	client *genai.Client
	model  string
}

func newGeminiProvider(ctx context.Context, cfg config.ModelConfig) (*geminiProvider, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("newGeminiProvider: create genai client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	return &geminiProvider{client: client, model: model}, nil
}

func (p *geminiProvider) Name() string  { return config.ProviderGemini }
func (p *geminiProvider) Model() string { return p.model }

// ChatCompletion replays the prior turns as chat history and sends the last
// message, prefixed with the system prompt when one was supplied.
func (p *geminiProvider) ChatCompletion(ctx context.Context, messages []Message, temperature float64, maxTokens int) (string, error) {
	history, prompt, err := geminiTurns(messages)
	if err != nil {
		return "", wrapVendorError(p.Name(), err)
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(temperature)),
		MaxOutputTokens: int32(maxTokens),
	}

	chat, err := p.client.Chats.Create(ctx, p.model, genCfg, history)
	if err != nil {
		return "", wrapVendorError(p.Name(), fmt.Errorf("create chat: %w", err))
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: prompt})
	if err != nil {
		return "", wrapVendorError(p.Name(), fmt.Errorf("send message: %w", err))
	}
	if len(resp.Candidates) == 0 {
		return "", wrapVendorError(p.Name(), errEmptyResponse)
	}

	return resp.Text(), nil
}

// geminiTurns converts a uniform message list into Gemini chat history plus
// the final prompt. Only a leading system message is treated as the system
// prompt; assistant turns become "model" turns and every other role is "user".
func geminiTurns(messages []Message) ([]*genai.Content, string, error) {
	var systemPrompt string
	chatMessages := messages
	if len(messages) > 0 && messages[0].Role == RoleSystem {
		systemPrompt = messages[0].Content
		chatMessages = messages[1:]
	}

	if len(chatMessages) == 0 {
		return nil, "", errors.New("no message to send")
	}

	history := make([]*genai.Content, 0, len(chatMessages)-1)
	for _, msg := range chatMessages[:len(chatMessages)-1] {
		role := RoleUser
		if msg.Role == RoleAssistant {
			role = geminiRoleModel
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.Content}},
		})
	}

	prompt := chatMessages[len(chatMessages)-1].Content
	if systemPrompt != "" {
		prompt = systemPrompt + "\n\n" + prompt
	}
	return history, prompt, nil
}
