// Package index owns the vector index lifecycle: building it from the
// corpus, lazily loading a persisted copy, and answering similarity queries.
package index

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/krishisathi/sathi/internal/corpus"
	"github.com/krishisathi/sathi/internal/domain"
)

// Status is a point-in-time view of the index for the status endpoint.
type Status struct {
	State          domain.IndexState
	DocumentCount  int
	EmbeddingModel string
	EmbedderReady  bool
}

// Service coordinates index builds and queries. At most one build runs at a
// time; queries keep reading the last ready snapshot while a rebuild runs.
type Service struct {
	store    VectorStore
	embedder Embedder
	loader   CorpusLoader
	logger   *zap.Logger

	chunkSize    int
	chunkOverlap int

	mu       sync.Mutex
	state    domain.IndexState
	snapshot domain.IndexSnapshot
	loaded   bool
	building bool
}

// Config holds index service settings.
type Config struct {
	Store        VectorStore
	Embedder     Embedder // nil when no embedding provider is configured
	Loader       CorpusLoader
	ChunkSize    int
	ChunkOverlap int
	Logger       *zap.Logger
}

// New creates an index service.
func New(cfg *Config) *Service {
	return &Service{
		store:        cfg.Store,
		embedder:     cfg.Embedder,
		loader:       cfg.Loader,
		logger:       cfg.Logger,
		chunkSize:    cfg.ChunkSize,
		chunkOverlap: cfg.ChunkOverlap,
		state:        domain.IndexEmpty,
	}
}

// Build creates the index from the corpus. Without force it is idempotent:
// a valid persisted index short-circuits the embedding pass. A failed build
// leaves the previously persisted index untouched.
func (s *Service) Build(ctx context.Context, force bool) (domain.IndexSnapshot, error) {
	s.mu.Lock()
	if s.building {
		s.mu.Unlock()
		return domain.IndexSnapshot{}, domain.ErrRebuildInProgress
	}
	s.building = true
	if s.state == domain.IndexReady {
		s.state = domain.IndexStale
	} else {
		s.state = domain.IndexBuilding
	}
	s.mu.Unlock()

	snap, err := s.build(ctx, force)

	s.mu.Lock()
	s.building = false
	if err != nil {
		// Keep whatever snapshot was queryable before.
		if s.loaded {
			s.state = domain.IndexReady
		} else {
			s.state = domain.IndexEmpty
		}
	} else {
		s.snapshot = snap
		s.loaded = true
		s.state = domain.IndexReady
	}
	s.mu.Unlock()

	return snap, err
}

func (s *Service) build(ctx context.Context, force bool) (domain.IndexSnapshot, error) {
	if !force {
		snap, err := s.store.Load(ctx)
		switch {
		case err == nil:
			if s.embedder != nil && snap.Model != s.embedder.Model() {
				return domain.IndexSnapshot{}, fmt.Errorf(
					"index built with %q, configured model is %q: %w",
					snap.Model, s.embedder.Model(), domain.ErrModelMismatch)
			}
			s.logger.Info("reusing persisted index",
				zap.Int("chunks", snap.Count),
				zap.String("model", snap.Model))
			return snap, nil
		case errors.Is(err, domain.ErrIndexAbsent), errors.Is(err, domain.ErrIndexEmpty):
			// fall through to a fresh build
		default:
			return domain.IndexSnapshot{}, err
		}
	}

	if s.embedder == nil {
		return domain.IndexSnapshot{}, domain.ErrEmbedderUnavailable
	}

	docs, err := s.loader.Load(ctx)
	if err != nil {
		return domain.IndexSnapshot{}, fmt.Errorf("load corpus: %w", err)
	}
	if len(docs) == 0 {
		return domain.IndexSnapshot{}, domain.ErrCorpusEmpty
	}

	chunks := corpus.Split(docs, s.chunkSize, s.chunkOverlap)
	if len(chunks) == 0 {
		return domain.IndexSnapshot{}, domain.ErrCorpusEmpty
	}

	s.logger.Info("embedding corpus",
		zap.Int("documents", len(docs)),
		zap.Int("chunks", len(chunks)))

	entries := make([]domain.EmbeddedChunk, len(chunks))
	dimensions := 0
	for i, chunk := range chunks {
		res, err := s.embedder.Embed(ctx, chunk.Text)
		if err != nil {
			return domain.IndexSnapshot{}, fmt.Errorf("embed chunk %d: %w", i, err)
		}
		if dimensions == 0 {
			dimensions = len(res.Embedding)
		}
		entries[i] = domain.EmbeddedChunk{Chunk: chunk, Vector: res.Embedding}
	}

	if err := s.store.Replace(ctx, s.embedder.Model(), dimensions, entries); err != nil {
		return domain.IndexSnapshot{}, fmt.Errorf("persist index: %w", err)
	}

	snap, err := s.store.Load(ctx)
	if err != nil {
		return domain.IndexSnapshot{}, fmt.Errorf("reload index: %w", err)
	}
	return snap, nil
}

// Query embeds text and returns the k nearest chunks. A missing or empty
// persisted index yields an empty result, not an error; a model mismatch or
// a corrupt snapshot fails loudly.
func (s *Service) Query(ctx context.Context, text string, k int) ([]domain.ScoredChunk, error) {
	ready, err := s.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	if !ready {
		return nil, nil
	}

	if s.embedder == nil {
		return nil, domain.ErrEmbedderUnavailable
	}

	res, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.store.Search(ctx, res.Embedding, k)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	return hits, nil
}

// ensureLoaded lazily hydrates the persisted snapshot. Returns false when
// there is nothing queryable.
func (s *Service) ensureLoaded(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if s.loaded {
		ready := s.snapshot.Count > 0
		s.mu.Unlock()
		return ready, nil
	}
	s.mu.Unlock()

	snap, err := s.store.Load(ctx)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrIndexAbsent):
		return false, nil
	case errors.Is(err, domain.ErrIndexEmpty):
		s.setLoaded(snap)
		return false, nil
	default:
		return false, err
	}

	if err := s.checkModel(snap); err != nil {
		return false, err
	}

	s.setLoaded(snap)
	s.logger.Info("loaded persisted index",
		zap.Int("chunks", snap.Count),
		zap.String("model", snap.Model))
	return true, nil
}

// checkModel rejects a persisted index built with a different embedding
// model. Querying it would compare vectors from incompatible spaces.
func (s *Service) checkModel(snap domain.IndexSnapshot) error {
	if s.embedder != nil && snap.Model != s.embedder.Model() {
		return fmt.Errorf("index built with %q, configured model is %q: %w",
			snap.Model, s.embedder.Model(), domain.ErrModelMismatch)
	}
	return nil
}

func (s *Service) setLoaded(snap domain.IndexSnapshot) {
	s.mu.Lock()
	s.snapshot = snap
	s.loaded = true
	if !s.building {
		if snap.Count > 0 {
			s.state = domain.IndexReady
		} else {
			s.state = domain.IndexEmpty
		}
	}
	s.mu.Unlock()
}

// Status reports the current lifecycle state for the status endpoint.
func (s *Service) Status(ctx context.Context) Status {
	s.mu.Lock()
	st := Status{
		State:         s.state,
		DocumentCount: s.snapshot.Count,
	}
	loaded := s.loaded
	building := s.building
	s.mu.Unlock()

	if s.embedder != nil {
		st.EmbedderReady = true
		st.EmbeddingModel = s.embedder.Model()
	}

	// Reflect a persisted index even before the first query touched it. A
	// model mismatch is not queryable, so it must not read as ready here.
	if !loaded && !building {
		if snap, err := s.store.Load(ctx); err == nil {
			if err := s.checkModel(snap); err != nil {
				s.logger.Warn("persisted index unusable", zap.Error(err))
				return st
			}
			s.setLoaded(snap)
			st.State = domain.IndexReady
			st.DocumentCount = snap.Count
		}
	}
	return st
}
