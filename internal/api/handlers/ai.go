package handlers

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dvloznov/finanzas-ai/internal/api/middleware"
	"github.com/dvloznov/finanzas-ai/internal/finance"
	"github.com/dvloznov/finanzas-ai/internal/llm"
	"github.com/dvloznov/finanzas-ai/internal/logger"
)

// Analysis types accepted by /api/ai/analyze. All of them currently run the
// complete analysis.
var analysisTypes = map[string]bool{
	"complete": true,
	"spending": true,
	"savings":  true,
	"budget":   true,
}

// ChatRequest is the body of POST /api/ai/chat.
type ChatRequest struct {
	Message             string        `json:"message"`
	ConversationHistory []llm.Message `json:"conversation_history"`
	UserID              *string       `json:"user_id,omitempty"`
}

// ChatResponse is returned by POST /api/ai/chat.
type ChatResponse struct {
	Message  string       `json:"message"`
	Metadata ChatMetadata `json:"metadata"`
}

// ChatMetadata names the backend that produced a chat reply.
type ChatMetadata struct {
	Model    string `json:"model"`
	Provider string `json:"provider"`
}

// AnalyzeRequest is the body of POST /api/ai/analyze.
type AnalyzeRequest struct {
	FinancialData *finance.FinancialData `json:"financial_data"`
	AnalysisType  string                 `json:"analysis_type"`
}

// CategorizeRequest is the body of POST /api/ai/categorize.
type CategorizeRequest struct {
	Description string          `json:"descripcion"`
	Amount      *finance.Amount `json:"monto"`
	Kind        finance.Kind    `json:"tipo"`
}

// ChatFinancialRequest is the body of POST /api/ai/chat-financial.
type ChatFinancialRequest struct {
	Message             string                 `json:"message"`
	ConversationHistory []llm.Message          `json:"conversation_history"`
	FinancialData       *finance.FinancialData `json:"financial_data"`
}

// ChatFinancialResponse carries the reply and the history including it.
type ChatFinancialResponse struct {
	Message             string        `json:"message"`
	ConversationHistory []llm.Message `json:"conversation_history"`
}

// AIHandler serves the /api/ai endpoints.
type AIHandler struct {
	analyzer Analyzer
	model    ModelInfo
	log      zerolog.Logger
}

// NewAIHandler creates a new AI handler.
func NewAIHandler(a Analyzer, model ModelInfo, log zerolog.Logger) *AIHandler {
	return &AIHandler{
		analyzer: a,
		model:    model,
		log:      log,
	}
}

// Chat handles POST /api/ai/chat
func (h *AIHandler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx, h.log)

	var req ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		middleware.WriteError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, err := h.analyzer.Chat(ctx, req.Message, req.ConversationHistory)
	if err != nil {
		log.Error().Err(err).Msg("Chat failed")
		middleware.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.WriteJSON(w, http.StatusOK, ChatResponse{
		Message: reply,
		Metadata: ChatMetadata{
			Model:    h.model.Model(),
			Provider: h.model.Name(),
		},
	})
}

// Analyze handles POST /api/ai/analyze
func (h *AIHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx, h.log)

	var req AnalyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.FinancialData == nil {
		middleware.WriteError(w, http.StatusBadRequest, "financial_data is required")
		return
	}
	if err := req.FinancialData.Validate(); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.AnalysisType == "" {
		req.AnalysisType = "complete"
	}
	if !analysisTypes[req.AnalysisType] {
		middleware.WriteError(w, http.StatusBadRequest, "analysis_type must be one of complete, spending, savings, budget")
		return
	}

	result, err := h.analyzer.GenerateCompleteAnalysis(ctx, *req.FinancialData)
	if err != nil {
		log.Error().Err(err).Str("analysis_type", req.AnalysisType).Msg("Analysis failed")
		middleware.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Info().
		Str("analysis_type", req.AnalysisType).
		Str("risk_level", result.RiskLevel).
		Int("insights", len(result.Insights)).
		Int("recommendations", len(result.Recommendations)).
		Msg("Analysis completed")

	middleware.WriteJSON(w, http.StatusOK, result)
}

// Categorize handles POST /api/ai/categorize
func (h *AIHandler) Categorize(w http.ResponseWriter, r *http.Request) {
	var req CategorizeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		middleware.WriteError(w, http.StatusBadRequest, "descripcion is required")
		return
	}
	if req.Amount == nil {
		middleware.WriteError(w, http.StatusBadRequest, "monto is required")
		return
	}
	if req.Kind == "" {
		middleware.WriteError(w, http.StatusBadRequest, "tipo is required")
		return
	}

	result := h.analyzer.CategorizeTransaction(r.Context(), req.Description, float64(*req.Amount), req.Kind)
	middleware.WriteJSON(w, http.StatusOK, result)
}

// ChatFinancial handles POST /api/ai/chat-financial
func (h *AIHandler) ChatFinancial(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx, h.log)

	var req ChatFinancialRequest
	if err := decodeJSON(w, r, &req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		middleware.WriteError(w, http.StatusBadRequest, "message is required")
		return
	}
	if req.FinancialData == nil {
		middleware.WriteError(w, http.StatusBadRequest, "financial_data is required")
		return
	}
	if err := req.FinancialData.Validate(); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	reply, err := h.analyzer.ChatWithContext(ctx, req.Message, req.ConversationHistory, *req.FinancialData)
	if err != nil {
		log.Error().Err(err).Msg("Financial chat failed")
		middleware.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	history := make([]llm.Message, 0, len(req.ConversationHistory)+2)
	history = append(history, req.ConversationHistory...)
	history = append(history,
		llm.Message{Role: llm.RoleUser, Content: req.Message},
		llm.Message{Role: llm.RoleAssistant, Content: reply},
	)

	middleware.WriteJSON(w, http.StatusOK, ChatFinancialResponse{
		Message:             reply,
		ConversationHistory: history,
	})
}
