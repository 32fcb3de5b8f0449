// Package handlers exposes the analyzer over HTTP.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dvloznov/finanzas-ai/internal/analyzer"
	"github.com/dvloznov/finanzas-ai/internal/finance"
	"github.com/dvloznov/finanzas-ai/internal/llm"
)

// maxBodyBytes caps request bodies; financial data for one user fits easily.
const maxBodyBytes = 1 << 20

// Analyzer is the part of analyzer.Analyzer the handlers use.
type Analyzer interface {
	GenerateCompleteAnalysis(ctx context.Context, data finance.FinancialData) (*analyzer.AnalysisResult, error)
	CategorizeTransaction(ctx context.Context, description string, amount float64, kind finance.Kind) analyzer.CategorizationResult
	ChatWithContext(ctx context.Context, message string, history []llm.Message, data finance.FinancialData) (string, error)
	Chat(ctx context.Context, message string, history []llm.Message) (string, error)
}

// ModelInfo describes the configured backend. llm.Provider satisfies it.
type ModelInfo interface {
	Name() string
	Model() string
}

var errEmptyBody = errors.New("request body is empty")

// decodeJSON reads a single JSON value from the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}
