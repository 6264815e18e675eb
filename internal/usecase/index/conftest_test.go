package index

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/krishisathi/sathi/internal/domain"
)

// mockVectorStore implements VectorStore for tests. Replace records its
// input; Load serves whatever Replace stored unless loadFn overrides it.
type mockVectorStore struct {
	mu      sync.Mutex
	model   string
	entries []domain.EmbeddedChunk
	stored  bool

	existsFn  func(ctx context.Context) (bool, error)
	loadFn    func(ctx context.Context) (domain.IndexSnapshot, error)
	replaceFn func(ctx context.Context, model string, dimensions int, entries []domain.EmbeddedChunk) error
	searchFn  func(ctx context.Context, vector []float32, k int) ([]domain.ScoredChunk, error)
}

func (m *mockVectorStore) Exists(ctx context.Context) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stored, nil
}

func (m *mockVectorStore) Load(ctx context.Context) (domain.IndexSnapshot, error) {
	if m.loadFn != nil {
		return m.loadFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.stored {
		return domain.IndexSnapshot{}, domain.ErrIndexAbsent
	}
	snap := domain.IndexSnapshot{
		Model:   m.model,
		Count:   len(m.entries),
		BuiltAt: time.Now(),
	}
	if len(m.entries) == 0 {
		return snap, domain.ErrIndexEmpty
	}
	snap.Dimensions = len(m.entries[0].Vector)
	return snap, nil
}

func (m *mockVectorStore) Replace(ctx context.Context, model string, dimensions int, entries []domain.EmbeddedChunk) error {
	if m.replaceFn != nil {
		return m.replaceFn(ctx, model, dimensions, entries)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.model = model
	m.entries = entries
	m.stored = true
	return nil
}

func (m *mockVectorStore) Search(ctx context.Context, vector []float32, k int) ([]domain.ScoredChunk, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, vector, k)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	hits := make([]domain.ScoredChunk, 0, k)
	for i, e := range m.entries {
		if i >= k {
			break
		}
		hits = append(hits, domain.ScoredChunk{Chunk: e.Chunk, Score: 1.0})
	}
	return hits, nil
}

// mockEmbedder implements Embedder and counts Embed calls.
type mockEmbedder struct {
	mu      sync.Mutex
	calls   int
	model   string
	embedFn func(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2, 0.3}}, nil
}

func (m *mockEmbedder) Model() string {
	if m.model != "" {
		return m.model
	}
	return "test-embedding-model"
}

func (m *mockEmbedder) embedCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockLoader implements CorpusLoader.
type mockLoader struct {
	docs   []domain.Document
	loadFn func(ctx context.Context) ([]domain.Document, error)
}

func (m *mockLoader) Load(ctx context.Context) ([]domain.Document, error) {
	if m.loadFn != nil {
		return m.loadFn(ctx)
	}
	return m.docs, nil
}

func testDocs(n int) []domain.Document {
	docs := make([]domain.Document, n)
	for i := range docs {
		docs[i] = domain.Document{
			Text:   fmt.Sprintf("document %d body text", i),
			Source: fmt.Sprintf("doc%d.pdf", i),
			Page:   1,
		}
	}
	return docs
}

func newTestService(store VectorStore, embedder Embedder, loader CorpusLoader) *Service {
	return New(&Config{
		Store:        store,
		Embedder:     embedder,
		Loader:       loader,
		ChunkSize:    1000,
		ChunkOverlap: 200,
		Logger:       zap.NewNop(),
	})
}
