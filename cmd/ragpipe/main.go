package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ragpipe/internal/config"
	"github.com/kailas-cloud/ragpipe/internal/corpus"
	"github.com/kailas-cloud/ragpipe/internal/db"
	dbRedis "github.com/kailas-cloud/ragpipe/internal/db/redis"
	"github.com/kailas-cloud/ragpipe/internal/domain"
	logpkg "github.com/kailas-cloud/ragpipe/internal/logger"
	"github.com/kailas-cloud/ragpipe/internal/metrics"
	"github.com/kailas-cloud/ragpipe/internal/repository/embcache"
	"github.com/kailas-cloud/ragpipe/internal/tools"
	chiTransport "github.com/kailas-cloud/ragpipe/internal/transport/chi"
	openaiTransport "github.com/kailas-cloud/ragpipe/internal/transport/openai"
	answeruc "github.com/kailas-cloud/ragpipe/internal/usecase/answer"
	embeddinguc "github.com/kailas-cloud/ragpipe/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/ragpipe/internal/usecase/health"
	keyworduc "github.com/kailas-cloud/ragpipe/internal/usecase/keyword"
	pipelineuc "github.com/kailas-cloud/ragpipe/internal/usecase/pipeline"
	rerankuc "github.com/kailas-cloud/ragpipe/internal/usecase/rerank"
	retrievaluc "github.com/kailas-cloud/ragpipe/internal/usecase/retrieval"
	"github.com/kailas-cloud/ragpipe/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting ragpipe API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Bool("cache_enabled", cfg.Cache.Enabled()),
		zap.Bool("mock_embeddings", cfg.Embedding.APIKey == ""),
	)

	// Register pipeline metrics explicitly (no init())
	metrics.Register()

	ctx := context.Background()

	// Optional embedding cache backend
	var store db.Store
	if cfg.Cache.Enabled() {
		redisStore, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer redisStore.Close()

		readiness := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
		if err := redisStore.WaitForReady(ctx, readiness); err != nil {
			logger.Fatal("Cache store not ready", zap.Error(err))
		}
		store = redisStore
		logger.Info("Connected to embedding cache")
	}

	embedder := buildEmbedder(cfg, store, logger)

	// Chat completion provider, shared by rerank judge, answer stage and
	// LLM keyword extraction. Nil means mock-only mode.
	var completer *openaiTransport.Completer
	if cfg.LLM.APIKey != "" {
		completer = openaiTransport.NewCompleter(&openaiTransport.CompleterConfig{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
		})
		logger.Info("Chat completion provider configured", zap.String("model", cfg.LLM.Model))
	}

	// Corpus is embedded once at startup, read-only afterwards.
	corp, err := corpus.NewStatic(ctx, embedder, corpus.SeedDocuments())
	if err != nil {
		logger.Fatal("Failed to build corpus", zap.Error(err))
	}
	logger.Info("Corpus ready", zap.Int("documents", corp.Len()))

	// Stage services
	rules := keyworduc.NewExtractor(cfg.Pipeline.MaxKeywords)
	var extractor pipelineuc.KeywordExtractor = rules
	if completer != nil {
		extractor = keyworduc.NewLLMExtractor(completer, rules, logger)
	}

	retriever := retrievaluc.New(retrievaluc.NewScanBackend(corp), domain.SearchParams{
		TopK:            cfg.Pipeline.TopKRetrieval,
		EFSearch:        cfg.Pipeline.EFSearch,
		EmbeddingWeight: cfg.Pipeline.EmbeddingWeight,
		KeywordWeight:   cfg.Pipeline.KeywordWeight,
	})

	heuristic := rerankuc.New(cfg.Pipeline.TopNRerank, currentPeriod(cfg))
	var reranker pipelineuc.Reranker = heuristic
	if completer != nil {
		reranker = rerankuc.NewLLMJudge(completer, heuristic, logger)
	}

	var answerCompleter answeruc.Completer
	if completer != nil {
		answerCompleter = completer
	}
	answerer := answeruc.New(answerCompleter, logger)

	// Tool registry
	registry := tools.NewRegistry(logger)
	registry.Register(tools.NewOCRTool())
	registry.Register(tools.NewRiskScoreTool())
	registry.Register(tools.NewReportTool())

	orchestrator := pipelineuc.New(
		embedder, extractor, retriever, reranker, answerer, registry,
		cfg.Pipeline.ParallelEnabled(), logger,
	)

	healthSvc := healthuc.New(healthChecks(store, embedder)...)

	server := chiTransport.NewServer(orchestrator, registry, healthSvc, corp.Len(), logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEmbedder assembles the embedding chain: OpenAI -> Cached -> Fallback.
// Without an API key the mock embedder serves every request directly.
func buildEmbedder(cfg config.Config, store db.Store, logger *zap.Logger) domain.Embedder {
	mock := embeddinguc.NewMockEmbedder(cfg.Embedding.Dimensions)

	// Pass nil interface (not typed nil pointer!) when no provider is
	// configured. Go gotcha: a typed nil wrapped in an interface != nil.
	var live domain.Embedder
	if cfg.Embedding.APIKey != "" {
		live = openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
		})
		if store != nil {
			ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour
			live = embcache.New(live, store, ttl, metrics.EmbeddingCacheTotal, logger)
		}
	}

	return embeddinguc.NewFallbackEmbedder(live, mock, logger)
}

// healthChecks assembles the component probes for the health endpoint.
func healthChecks(store db.Store, embedder domain.Embedder) []healthuc.Check {
	checks := []healthuc.Check{
		{Name: "pipeline", Fn: func(context.Context) error { return nil }},
	}
	if store != nil {
		checks = append(checks, healthuc.Check{Name: "cache", Fn: store.Ping})
	}
	if hc, ok := embedder.(interface{ HealthCheck(context.Context) error }); ok {
		checks = append(checks, healthuc.Check{Name: "embedding", Fn: hc.HealthCheck})
	}
	return checks
}

// currentPeriod resolves the recency-bonus quarter: configured value wins,
// otherwise computed from the clock.
func currentPeriod(cfg config.Config) string {
	if cfg.Pipeline.CurrentPeriod != "" {
		return cfg.Pipeline.CurrentPeriod
	}
	now := time.Now()
	return fmt.Sprintf("%d-Q%d", now.Year(), (int(now.Month())-1)/3+1)
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
