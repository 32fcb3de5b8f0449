// Package analyzer turns financial data and chat turns into model prompts and
// shapes the replies: complete analysis, transaction categorization and
// contextual chat.
package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/finanzas-ai/internal/cache"
	"github.com/dvloznov/finanzas-ai/internal/finance"
	"github.com/dvloznov/finanzas-ai/internal/llm"
	"github.com/dvloznov/finanzas-ai/internal/logger"
)

const (
	analysisTemperature = 0.7
	analysisMaxTokens   = 1200

	contextChatTemperature = 0.7
	contextChatMaxTokens   = 800

	simpleChatTemperature = 0.7
	simpleChatMaxTokens   = 1024

	categorizationTemperature = 0.3
)

const (
	defaultConfidence     = 0.8
	defaultReasoning      = "Categorización automática"
	fallbackConfidence    = 0.5
	fallbackReasonPrefix  = "Error en categorización: "
	categoryCacheKeyScope = "categorize"
)

// AnalysisResult is the outcome of GenerateCompleteAnalysis.
type AnalysisResult struct {
	Analysis        string          `json:"analysis"`
	Insights        []string        `json:"insights"`
	Recommendations []string        `json:"recommendations"`
	RiskLevel       string          `json:"risk_level"`
	Metrics         finance.Metrics `json:"metrics"`
}

// CategorizationResult is the category chosen for one transaction.
type CategorizationResult struct {
	Category   string  `json:"categoria"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Analyzer builds prompts for a single Provider. It holds no per-request
// state and is safe for concurrent use.
type Analyzer struct {
	provider llm.Provider
	log      zerolog.Logger
	cache    cache.Store
	cacheTTL time.Duration
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithCache stores successful categorizations in store for ttl.
func WithCache(store cache.Store, ttl time.Duration) Option {
	return func(a *Analyzer) {
		a.cache = store
		a.cacheTTL = ttl
	}
}

// New returns an Analyzer using provider.
func New(provider llm.Provider, log zerolog.Logger, opts ...Option) *Analyzer {
	a := &Analyzer{provider: provider, log: log}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// GenerateCompleteAnalysis asks the model for a diagnosis of data and pulls
// insights and recommendations out of the reply. Metrics and risk tier are
// computed locally.
func (a *Analyzer) GenerateCompleteAnalysis(ctx context.Context, data finance.FinancialData) (*AnalysisResult, error) {
	contextText := finance.FormatContext(data)

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: analysisSystemPrompt},
		{Role: llm.RoleUser, Content: buildAnalysisPrompt(contextText)},
	}

	text, err := a.complete(ctx, "analysis", messages, analysisTemperature, analysisMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("GenerateCompleteAnalysis: %w", err)
	}

	metrics := finance.ComputeMetrics(data)
	return &AnalysisResult{
		Analysis:        text,
		Insights:        nonNil(ExtractBulletPoints(text, InsightKeywords)),
		Recommendations: nonNil(ExtractBulletPoints(text, RecommendationKeywords)),
		RiskLevel:       finance.RiskLevel(metrics.SavingsRate),
		Metrics:         metrics,
	}, nil
}

// CategorizeTransaction picks a category for one transaction. It never fails:
// any provider or decoding problem yields the Otros fallback.
func (a *Analyzer) CategorizeTransaction(ctx context.Context, description string, amount float64, kind finance.Kind) CategorizationResult {
	log := logger.FromContext(ctx, a.log)
	key := categoryCacheKey(description, amount, kind)

	if cached, ok := a.cachedCategory(ctx, key); ok {
		log.Debug().Str("category", cached.Category).Msg("categorization cache hit")
		return cached
	}

	categories := CategoriesFor(kind)
	reply, err := llm.StructuredCompletion(ctx, a.provider,
		buildCategorizationPrompt(description, amount, kind),
		buildCategorizationSystemPrompt(categories),
		categorizationTemperature,
	)
	if err != nil {
		log.Warn().Err(err).Str("description", description).Msg("categorization failed, using fallback")
		return CategorizationResult{
			Category:   OtherCategory,
			Confidence: fallbackConfidence,
			Reasoning:  fallbackReasonPrefix + err.Error(),
		}
	}

	result := categorizationFromReply(reply, categories)
	if _, undecoded := reply[llm.RawResponseKey]; undecoded {
		log.Warn().Str("description", description).Msg("categorization reply was not JSON")
		return result
	}
	a.storeCategory(ctx, key, result)
	return result
}

// ChatWithContext answers message as FinBot with data embedded in the system
// prompt. history is sent in order between the system prompt and message.
func (a *Analyzer) ChatWithContext(ctx context.Context, message string, history []llm.Message, data finance.FinancialData) (string, error) {
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: buildFinBotPrompt(finance.FormatContext(data))})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: message})

	text, err := a.complete(ctx, "chat_financial", messages, contextChatTemperature, contextChatMaxTokens)
	if err != nil {
		return "", fmt.Errorf("ChatWithContext: %w", err)
	}
	return text, nil
}

// Chat answers message without financial data.
func (a *Analyzer) Chat(ctx context.Context, message string, history []llm.Message) (string, error) {
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: simpleChatSystemPrompt})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: message})

	text, err := a.complete(ctx, "chat", messages, simpleChatTemperature, simpleChatMaxTokens)
	if err != nil {
		return "", fmt.Errorf("Chat: %w", err)
	}
	return text, nil
}

func (a *Analyzer) complete(ctx context.Context, op string, messages []llm.Message, temperature float64, maxTokens int) (string, error) {
	log := logger.FromContext(ctx, a.log)
	start := time.Now()

	text, err := a.provider.ChatCompletion(ctx, messages, temperature, maxTokens)
	evt := log.Debug()
	if err != nil {
		evt = log.Error().Err(err)
	}
	evt.Str("op", op).
		Str("provider", a.provider.Name()).
		Int("messages", len(messages)).
		Dur("latency", time.Since(start)).
		Msg("model completion")
	return text, err
}

// categorizationFromReply reads the decoded model reply. Unknown categories
// become Otros and confidence is clamped to [0, 1].
func categorizationFromReply(reply map[string]interface{}, categories []string) CategorizationResult {
	result := CategorizationResult{
		Category:   OtherCategory,
		Confidence: defaultConfidence,
		Reasoning:  defaultReasoning,
	}

	category, ok := reply["categoria"].(string)
	if !ok {
		category, _ = reply["category"].(string)
	}
	if containsCategory(categories, category) {
		result.Category = category
	}

	if c, ok := numberValue(reply["confidence"]); ok {
		result.Confidence = math.Max(0, math.Min(1, c))
	}
	if r, ok := reply["reasoning"].(string); ok && r != "" {
		result.Reasoning = r
	}
	return result
}

func numberValue(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) {
			return 0, false
		}
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func categoryCacheKey(description string, amount float64, kind finance.Kind) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(description)), " ")
	return strings.Join([]string{categoryCacheKeyScope, string(kind), normalized, finance.FormatAmount(amount)}, "|")
}

func (a *Analyzer) cachedCategory(ctx context.Context, key string) (CategorizationResult, bool) {
	if a.cache == nil {
		return CategorizationResult{}, false
	}
	raw, ok, err := a.cache.Get(ctx, key)
	if err != nil {
		log := logger.FromContext(ctx, a.log)
		log.Warn().Err(err).Msg("category cache read failed")
		return CategorizationResult{}, false
	}
	if !ok {
		return CategorizationResult{}, false
	}
	var result CategorizationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return CategorizationResult{}, false
	}
	return result, true
}

func (a *Analyzer) storeCategory(ctx context.Context, key string, result CategorizationResult) {
	if a.cache == nil {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := a.cache.Set(ctx, key, raw, a.cacheTTL); err != nil {
		log := logger.FromContext(ctx, a.log)
		log.Warn().Err(err).Msg("category cache write failed")
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
