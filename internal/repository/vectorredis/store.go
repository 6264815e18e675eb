// Package vectorredis is the redis-backed vector index driver: chunk hashes
// under a key prefix, an FT HNSW index over the vector field, KNN search
// server-side.
package vectorredis

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/krishisathi/sathi/internal/db"
	"github.com/krishisathi/sathi/internal/domain"
)

const (
	vectorField = "vector"
	metaSuffix  = "index:meta"
	chunkSuffix = "chunk:"

	// writeBatchSize bounds one pipelined HSET round-trip during rebuild.
	writeBatchSize = 100
)

// Store persists embedded chunks in redis hashes and searches them through
// an FT vector index.
type Store struct {
	db        db.Store
	keyPrefix string
	indexName string
	logger    *zap.Logger

	hnswM           int
	hnswEFConstruct int
}

// Config holds the redis vector store settings. HNSWM and HNSWEFConstruct
// come from index.hnsw_m / index.hnsw_ef_construction in the config file.
type Config struct {
	DB              db.Store
	KeyPrefix       string
	IndexName       string
	HNSWM           int
	HNSWEFConstruct int
	Logger          *zap.Logger
}

// New creates a redis-backed vector store.
func New(cfg *Config) *Store {
	return &Store{
		db:              cfg.DB,
		keyPrefix:       cfg.KeyPrefix,
		indexName:       cfg.IndexName,
		hnswM:           cfg.HNSWM,
		hnswEFConstruct: cfg.HNSWEFConstruct,
		logger:          cfg.Logger,
	}
}

// Exists reports whether index metadata is present.
func (s *Store) Exists(ctx context.Context) (bool, error) {
	return s.db.Exists(ctx, s.metaKey())
}

// Load reads the index metadata and makes sure the FT index is queryable.
// Absent metadata maps to domain.ErrIndexAbsent, zero chunks to
// domain.ErrIndexEmpty.
func (s *Store) Load(ctx context.Context) (domain.IndexSnapshot, error) {
	fields, err := s.db.HGetAll(ctx, s.metaKey())
	if err != nil {
		return domain.IndexSnapshot{}, fmt.Errorf("read index meta: %w", err)
	}
	if len(fields) == 0 {
		return domain.IndexSnapshot{}, domain.ErrIndexAbsent
	}

	snap, err := parseMeta(fields)
	if err != nil {
		return domain.IndexSnapshot{}, fmt.Errorf("parse index meta: %w", err)
	}

	if snap.Count == 0 {
		return snap, domain.ErrIndexEmpty
	}

	// The FT index may be missing after a FLUSHALL-less restore; recreate
	// it over the existing hashes.
	exists, err := s.db.IndexExists(ctx, s.indexName)
	if err != nil {
		return domain.IndexSnapshot{}, fmt.Errorf("check search index: %w", err)
	}
	if !exists {
		s.logger.Warn("search index missing, recreating",
			zap.String("index", s.indexName))
		if err := s.createIndex(ctx, snap.Dimensions); err != nil {
			return domain.IndexSnapshot{}, err
		}
	}

	return snap, nil
}

// Replace rebuilds the stored chunk set and the FT index. Old chunk hashes
// are removed first so a shrinking corpus leaves no orphans.
func (s *Store) Replace(ctx context.Context, model string, dimensions int, entries []domain.EmbeddedChunk) error {
	if err := s.clear(ctx); err != nil {
		return err
	}

	for start := 0; start < len(entries); start += writeBatchSize {
		end := start + writeBatchSize
		if end > len(entries) {
			end = len(entries)
		}

		items := make([]db.HashSetItem, 0, end-start)
		for i := start; i < end; i++ {
			items = append(items, db.HashSetItem{
				Key:    s.chunkKey(i),
				Fields: chunkFields(entries[i]),
			})
		}
		if err := s.db.HSetMulti(ctx, items); err != nil {
			return fmt.Errorf("write chunk batch: %w", err)
		}
	}

	meta := map[string]string{
		"model":      model,
		"dimensions": strconv.Itoa(dimensions),
		"chunks":     strconv.Itoa(len(entries)),
		"built_at":   time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.db.HSet(ctx, s.metaKey(), meta); err != nil {
		return fmt.Errorf("write index meta: %w", err)
	}

	if err := s.createIndex(ctx, dimensions); err != nil {
		return err
	}

	s.logger.Info("vector index rebuilt",
		zap.String("index", s.indexName),
		zap.Int("chunks", len(entries)))
	return nil
}

// Search runs a KNN query against the FT index.
func (s *Store) Search(ctx context.Context, vector []float32, k int) ([]domain.ScoredChunk, error) {
	if k <= 0 {
		return nil, nil
	}

	res, err := s.db.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    s.indexName,
		VectorField:  vectorField,
		Vector:       vector,
		K:            k,
		ReturnFields: []string{"text", "source", "file", "page", "pos"},
	})
	if err != nil {
		return nil, fmt.Errorf("knn search: %w", err)
	}

	hits := make([]domain.ScoredChunk, 0, len(res.Entries))
	for _, e := range res.Entries {
		page, _ := strconv.Atoi(e.Fields["page"])
		pos, _ := strconv.Atoi(e.Fields["pos"])
		hits = append(hits, domain.ScoredChunk{
			Chunk: domain.Chunk{
				Text:   e.Fields["text"],
				Source: e.Fields["source"],
				File:   e.Fields["file"],
				Page:   page,
				Pos:    pos,
			},
			Score: e.Score,
		})
	}
	return hits, nil
}

func (s *Store) createIndex(ctx context.Context, dimensions int) error {
	err := s.db.CreateVectorIndex(ctx, &db.VectorIndexDefinition{
		Name:            s.indexName,
		Prefix:          s.keyPrefix + chunkSuffix,
		VectorField:     vectorField,
		Dimensions:      dimensions,
		HNSWM:           s.hnswM,
		HNSWEFConstruct: s.hnswEFConstruct,
		TextFields:      []string{"text", "source"},
	})
	if err != nil {
		return fmt.Errorf("create search index: %w", err)
	}
	return nil
}

func (s *Store) clear(ctx context.Context) error {
	exists, err := s.db.IndexExists(ctx, s.indexName)
	if err != nil {
		return fmt.Errorf("check search index: %w", err)
	}
	if exists {
		if err := s.db.DropIndex(ctx, s.indexName); err != nil {
			return fmt.Errorf("drop search index: %w", err)
		}
	}

	keys, err := s.db.Scan(ctx, s.keyPrefix+chunkSuffix+"*")
	if err != nil {
		return fmt.Errorf("scan chunk keys: %w", err)
	}
	for _, key := range keys {
		if err := s.db.Del(ctx, key); err != nil {
			return fmt.Errorf("delete chunk key: %w", err)
		}
	}
	return nil
}

func (s *Store) metaKey() string {
	return s.keyPrefix + metaSuffix
}

func (s *Store) chunkKey(i int) string {
	return fmt.Sprintf("%s%s%d", s.keyPrefix, chunkSuffix, i)
}

func chunkFields(e domain.EmbeddedChunk) map[string]string {
	return map[string]string{
		"text":      e.Chunk.Text,
		"source":    e.Chunk.Source,
		"file":      e.Chunk.File,
		"page":      strconv.Itoa(e.Chunk.Page),
		"pos":       strconv.Itoa(e.Chunk.Pos),
		vectorField: vectorToBytes(e.Vector),
	}
}

func parseMeta(fields map[string]string) (domain.IndexSnapshot, error) {
	dimensions, err := strconv.Atoi(fields["dimensions"])
	if err != nil {
		return domain.IndexSnapshot{}, fmt.Errorf("dimensions: %w", err)
	}
	count, err := strconv.Atoi(fields["chunks"])
	if err != nil {
		return domain.IndexSnapshot{}, fmt.Errorf("chunks: %w", err)
	}
	builtAt, err := time.Parse(time.RFC3339, fields["built_at"])
	if err != nil {
		return domain.IndexSnapshot{}, fmt.Errorf("built_at: %w", err)
	}
	return domain.IndexSnapshot{
		Model:      fields["model"],
		Dimensions: dimensions,
		Count:      count,
		BuiltAt:    builtAt,
	}, nil
}

// vectorToBytes serializes a float32 vector into the binary string format
// redis FT expects (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	b := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(f))
	}
	return string(b)
}
