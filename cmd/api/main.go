package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/finanzas-ai/internal/analyzer"
	"github.com/dvloznov/finanzas-ai/internal/api/handlers"
	"github.com/dvloznov/finanzas-ai/internal/api/middleware"
	"github.com/dvloznov/finanzas-ai/internal/cache"
	"github.com/dvloznov/finanzas-ai/internal/config"
	"github.com/dvloznov/finanzas-ai/internal/llm"
	"github.com/dvloznov/finanzas-ai/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Parse command-line flags
	port := flag.String("port", cfg.Server.Port, "HTTP server port (or set PORT env)")
	flag.Parse()

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()

	provider, err := llm.New(ctx, cfg.AI)
	if err != nil {
		log.Fatal().Err(err).Str("provider", cfg.AI.Provider).Msg("Failed to create AI provider")
	}
	log.Info().
		Str("provider", provider.Name()).
		Str("model", provider.Model()).
		Msg("AI provider ready")

	var opts []analyzer.Option
	store, err := newCategoryCache(ctx, cfg.Cache)
	if err != nil {
		log.Warn().Err(err).Str("mode", cfg.Cache.Mode).Msg("Category cache unavailable, continuing without it")
	} else if store != nil {
		defer store.Close()
		opts = append(opts, analyzer.WithCache(store, cfg.Cache.TTL))
		log.Info().Str("mode", cfg.Cache.Mode).Dur("ttl", cfg.Cache.TTL).Msg("Category cache enabled")
	}

	// Initialize handlers
	a := analyzer.New(provider, log, opts...)
	aiHandler := handlers.NewAIHandler(a, provider, log)
	healthHandler := handlers.NewHealthHandler(provider)

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.RPS > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		defer limiter.Stop()
	}

	mux := newRouter(aiHandler, healthHandler, limiter)

	// Apply middleware
	handler := middleware.Chain(mux,
		middleware.Recovery(log),
		middleware.RequestID(log),
		middleware.Logger(log),
		middleware.CORS(cfg.Server.CORSOrigins),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", *port).Strs("cors_origins", cfg.Server.CORSOrigins).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// newRouter registers every route. limiter may be nil.
func newRouter(ai *handlers.AIHandler, health *handlers.HealthHandler, limiter *middleware.RateLimiter) *http.ServeMux {
	mux := http.NewServeMux()

	limited := func(h http.HandlerFunc) http.Handler {
		if limiter == nil {
			return h
		}
		return middleware.RateLimit(limiter)(h)
	}

	// AI endpoints
	mux.Handle("/api/ai/chat", limited(allow(http.MethodPost, ai.Chat)))
	mux.Handle("/api/ai/analyze", limited(allow(http.MethodPost, ai.Analyze)))
	mux.Handle("/api/ai/categorize", limited(allow(http.MethodPost, ai.Categorize)))
	mux.Handle("/api/ai/chat-financial", limited(allow(http.MethodPost, ai.ChatFinancial)))

	// Service banner and health check
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			middleware.WriteError(w, http.StatusNotFound, "Not found")
			return
		}
		allow(http.MethodGet, health.Root)(w, r)
	})
	mux.HandleFunc("/health", allow(http.MethodGet, health.Health))

	return mux
}

func allow(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == method {
			h(w, r)
		} else {
			w.Header().Set("Allow", method)
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}

// newCategoryCache returns nil, nil when caching is disabled.
func newCategoryCache(ctx context.Context, cfg config.CacheConfig) (cache.Store, error) {
	switch cfg.Mode {
	case config.CacheMemory:
		m, err := cache.NewMemory()
		if err != nil {
			return nil, err
		}
		return m, nil
	case config.CacheRedis:
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		r, err := cache.NewRedis(pingCtx, cfg.RedisAddr)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, nil
	}
}
