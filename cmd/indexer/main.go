// Command indexer builds the vector index from the PDF corpus and runs a
// short smoke query against the fresh index.
package main

import (
	"context"
	"flag"
	"time"

	"go.uber.org/zap"

	"github.com/krishisathi/sathi/internal/config"
	"github.com/krishisathi/sathi/internal/corpus"
	dbRedis "github.com/krishisathi/sathi/internal/db/redis"
	logpkg "github.com/krishisathi/sathi/internal/logger"
	"github.com/krishisathi/sathi/internal/metrics"
	"github.com/krishisathi/sathi/internal/repository/vectorfile"
	"github.com/krishisathi/sathi/internal/repository/vectorredis"
	openaiTransport "github.com/krishisathi/sathi/internal/transport/openai"
	indexuc "github.com/krishisathi/sathi/internal/usecase/index"
)

const (
	searchIndexName = "sathi_chunks"
	smokeQuery      = "pesticide safety"
	smokeK          = 3
)

func main() {
	force := flag.Bool("force", false, "rebuild even when a persisted index exists")
	flag.Parse()

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

	if cfg.Embedding.APIKey == "" {
		logger.Fatal("Embedding API key is required to build the index")
	}

	metrics.RegisterPipelineMetrics()

	ctx := context.Background()

	var vectorStore indexuc.VectorStore
	switch cfg.Index.Driver {
	case "file":
		vectorStore = vectorfile.New(cfg.Index.Dir)
	case "redis":
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create database store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Database not ready", zap.Error(err))
		}

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

	embedder := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Logger:     logger,
	})

	svc := indexuc.New(&indexuc.Config{
		Store:        vectorStore,
		Embedder:     embedder,
		Loader:       corpus.NewLoader(cfg.Corpus.DataDir, logger),
		ChunkSize:    cfg.Corpus.ChunkSize,
		ChunkOverlap: cfg.Corpus.ChunkOverlap,
		Logger:       logger,
	})

	start := time.Now()
	snap, err := svc.Build(ctx, *force)
	if err != nil {
		logger.Fatal("Index build failed", zap.Error(err))
	}
	logger.Info("Index ready",
		zap.Int("chunks", snap.Count),
		zap.String("model", snap.Model),
		zap.Duration("took", time.Since(start)),
	)

	hits, err := svc.Query(ctx, smokeQuery, smokeK)
	if err != nil {
		logger.Fatal("Smoke query failed", zap.Error(err))
	}
	logger.Info("Smoke query results", zap.String("query", smokeQuery), zap.Int("hits", len(hits)))
	for i, h := range hits {
		logger.Info("Hit",
			zap.Int("rank", i+1),
			zap.Float64("score", h.Score),
			zap.String("source", h.Chunk.Source),
			zap.Int("page", h.Chunk.Page),
		)
	}
}
