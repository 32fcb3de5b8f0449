package handlers

import (
	"net/http"
	"time"

	"github.com/dvloznov/finanzas-ai/internal/api/middleware"
)

const (
	serviceName    = "Finanzas Smart AI Service"
	serviceVersion = "1.0.0"
)

// HealthHandler serves the service banner and health check.
type HealthHandler struct {
	model ModelInfo
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(model ModelInfo) *HealthHandler {
	return &HealthHandler{model: model}
}

// Root handles GET /
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "online",
		"service":     serviceName,
		"version":     serviceVersion,
		"ai_provider": h.model.Name(),
		"ai_model":    h.model.Model(),
	})
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "healthy",
		"api_configured": true,
		h.model.Name():   "ready",
		"model":          h.model.Model(),
		"time":           time.Now().Format(time.RFC3339),
	})
}
