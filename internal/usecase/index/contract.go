package index

import (
	"context"

	"github.com/krishisathi/sathi/internal/domain"
)

// VectorStore is the persistence contract shared by the file and redis
// drivers.
type VectorStore interface {
	Exists(ctx context.Context) (bool, error)
	Load(ctx context.Context) (domain.IndexSnapshot, error)
	Replace(ctx context.Context, model string, dimensions int, entries []domain.EmbeddedChunk) error
	Search(ctx context.Context, vector []float32, k int) ([]domain.ScoredChunk, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
	Model() string
}

// CorpusLoader loads the raw documents the index is built from.
type CorpusLoader interface {
	Load(ctx context.Context) ([]domain.Document, error)
}
