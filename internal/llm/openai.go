package llm

import (
	"context"
	"errors"

	"github.com/sashabaranov/go-openai"

	"github.com/dvloznov/finanzas-ai/internal/config"
)

// openAIProvider speaks the OpenAI chat-completions protocol, which DeepSeek implements.
type openAIProvider struct {
	name   string
	model  string
	client *openai.Client
}

func newOpenAIProvider(name string, cfg config.ModelConfig) *openAIProvider {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &openAIProvider{
		name:   name,
		model:  cfg.Model,
		client: openai.NewClientWithConfig(clientCfg),
	}
}

func (p *openAIProvider) Name() string  { return p.name }
func (p *openAIProvider) Model() string { return p.model }

// ChatCompletion forwards the messages unchanged and returns the first choice.
func (p *openAIProvider) ChatCompletion(ctx context.Context, messages []Message, temperature float64, maxTokens int) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
		Temperature: float32(temperature),
		MaxTokens:   maxTokens,
	}
	for _, msg := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", wrapVendorError(p.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", wrapVendorError(p.name, errors.New("response has no choices"))
	}

	return resp.Choices[0].Message.Content, nil
}
