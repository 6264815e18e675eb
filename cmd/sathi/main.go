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

	"github.com/krishisathi/sathi/internal/config"
	"github.com/krishisathi/sathi/internal/corpus"
	dbRedis "github.com/krishisathi/sathi/internal/db/redis"
	"github.com/krishisathi/sathi/internal/domain"
	logpkg "github.com/krishisathi/sathi/internal/logger"
	"github.com/krishisathi/sathi/internal/metrics"
	"github.com/krishisathi/sathi/internal/prompt"
	conversationrepo "github.com/krishisathi/sathi/internal/repository/conversation"
	"github.com/krishisathi/sathi/internal/repository/vectorfile"
	"github.com/krishisathi/sathi/internal/repository/vectorredis"
	"github.com/krishisathi/sathi/internal/transport/chihttp"
	"github.com/krishisathi/sathi/internal/transport/duckduckgo"
	openaiTransport "github.com/krishisathi/sathi/internal/transport/openai"
	"github.com/krishisathi/sathi/internal/usecase/chat"
	healthuc "github.com/krishisathi/sathi/internal/usecase/health"
	indexuc "github.com/krishisathi/sathi/internal/usecase/index"
	"github.com/krishisathi/sathi/internal/usecase/retrieval"
	"github.com/krishisathi/sathi/internal/usecase/translation"
	"github.com/krishisathi/sathi/internal/usecase/websearch"
	"github.com/krishisathi/sathi/internal/version"
)

// searchIndexName is the FT index used by the redis vector driver.
const searchIndexName = "sathi_chunks"

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting sathi API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("index_driver", cfg.Index.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()

	// Providers. Missing API keys disable the stage, they never fail startup.
	var embedder *openaiTransport.Embedder
	if cfg.Embedding.APIKey != "" {
		embedder = openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
			Logger:     logger,
		})
		logger.Info("Embedding provider configured", zap.String("model", cfg.Embedding.Model))
	} else {
		logger.Warn("No embedding API key, document retrieval disabled")
	}

	var chatLLM, translationLLM *openaiTransport.ChatClient
	if cfg.LLM.APIKey != "" {
		chatLLM = openaiTransport.NewChatClient(&openaiTransport.ChatConfig{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Purpose:     "chat",
			Logger:      logger,
		})
		translationLLM = openaiTransport.NewChatClient(&openaiTransport.ChatConfig{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.TranslationTemperature,
			Purpose:     "translation",
			Logger:      logger,
		})
		logger.Info("LLM provider configured", zap.String("model", cfg.LLM.Model))
	} else {
		logger.Warn("No LLM API key, serving mock responses")
	}

	// Pass nil interface (not typed nil pointer!) when a provider is missing.
	var translationCompleter domain.Completer
	if translationLLM != nil {
		translationCompleter = translationLLM
	}
	translator := translation.New(translationCompleter, logger)

	var vectorStore indexuc.VectorStore
	switch cfg.Index.Driver {
	case "file":
		vectorStore = vectorfile.New(cfg.Index.Dir)
	case "redis":
		vectorStore = vectorredis.New(&vectorredis.Config{
			DB:              store,
			KeyPrefix:       cfg.Database.KeyPrefix,
			IndexName:       searchIndexName,
			HNSWM:           cfg.Index.HNSWM,
			HNSWEFConstruct: cfg.Index.HNSWEFConstruct,
			Logger:          logger,
		})
	default:
		logger.Fatal("Unknown index driver", zap.String("driver", cfg.Index.Driver))
	}

	var indexEmbedder indexuc.Embedder
	if embedder != nil {
		indexEmbedder = embedder
	}
	indexSvc := indexuc.New(&indexuc.Config{
		Store:        vectorStore,
		Embedder:     indexEmbedder,
		Loader:       corpus.NewLoader(cfg.Corpus.DataDir, logger),
		ChunkSize:    cfg.Corpus.ChunkSize,
		ChunkOverlap: cfg.Corpus.ChunkOverlap,
		Logger:       logger,
	})

	retrievalSvc := retrieval.New(indexSvc, translator, logger)

	var searcher websearch.Searcher
	if cfg.Search.Enabled {
		searcher = duckduckgo.NewClient(&duckduckgo.Config{
			BaseURL: cfg.Search.BaseURL,
			Timeout: time.Duration(cfg.Search.TimeoutSec) * time.Second,
			Logger:  logger,
		})
	}
	probeCtx, probeCancel := context.WithTimeout(ctx, 15*time.Second)
	searchSvc := websearch.New(probeCtx, searcher, translator, logger)
	probeCancel()

	composer, err := prompt.NewComposer(cfg.Chat.PromptVariant, cfg.Chat.HistoryWindow, logger)
	if err != nil {
		logger.Fatal("Failed to build prompt composer", zap.Error(err))
	}
	logger.Info("Prompt variant selected", zap.String("variant", composer.Variant()))

	var chatCompleter domain.Completer
	if chatLLM != nil {
		chatCompleter = chatLLM
	}
	chatSvc := chat.New(&chat.Config{
		Retriever:      retrievalSvc,
		Searcher:       searchSvc,
		Composer:       composer,
		Completer:      chatCompleter,
		MaxContextDocs: cfg.Chat.MaxContextDocs,
		Logger:         logger,
	})

	convRepo := conversationrepo.New(store, cfg.Database.KeyPrefix)

	var embeddingChecker, llmChecker healthuc.ProviderChecker
	if embedder != nil {
		embeddingChecker = embedder
	}
	if chatLLM != nil {
		llmChecker = chatLLM
	}
	healthSvc := healthuc.New(store, embeddingChecker, llmChecker)

	server := chihttp.NewServer(&chihttp.Config{
		Conversations: convRepo,
		Responder:     chatSvc,
		Searcher:      retrievalSvc,
		Indexer:       indexSvc,
		Health:        healthSvc,
		DefaultK:      cfg.Chat.MaxContextDocs,
		Logger:        logger,
	})

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chihttp.BearerAuthMiddleware(cfg.Auth.APIKeys))
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
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

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
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
