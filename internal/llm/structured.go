package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// StructuredMaxTokens is the completion budget for JSON replies.
const StructuredMaxTokens = 800

// RawResponseKey holds the model text when it could not be decoded as JSON.
const RawResponseKey = "raw_response"

const (
	jsonFenceOpen = "```json"
	fence         = "```"
)

// StructuredCompletion asks the provider for a JSON reply and decodes it with
// ParseStructured. systemPrompt may be empty.
func StructuredCompletion(ctx context.Context, p Provider, prompt, systemPrompt string, temperature float64) (map[string]interface{}, error) {
	messages := make([]Message, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, Message{Role: RoleSystem, Content: systemPrompt})
	}
	messages = append(messages, Message{Role: RoleUser, Content: prompt})

	text, err := p.ChatCompletion(ctx, messages, temperature, StructuredMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("structured completion: %w", err)
	}

	return ParseStructured(text), nil
}

// ParseStructured decodes model output as a JSON object. It tries the whole
// text first, then the body of the first ```json fence, and otherwise returns
// the text under RawResponseKey.
func ParseStructured(text string) map[string]interface{} {
	if obj, ok := decodeObject(text); ok {
		return obj
	}

	if idx := strings.Index(text, jsonFenceOpen); idx != -1 {
		body := text[idx+len(jsonFenceOpen):]
		if end := strings.Index(body, fence); end != -1 {
			body = body[:end]
		}
		if obj, ok := decodeObject(strings.TrimSpace(body)); ok {
			return obj
		}
	}

	return map[string]interface{}{RawResponseKey: text}
}

func decodeObject(s string) (map[string]interface{}, bool) {
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(s), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}
