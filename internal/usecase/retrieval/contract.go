package retrieval

import (
	"context"

	"github.com/krishisathi/sathi/internal/domain"
)

// Querier answers nearest-neighbor queries against the vector index.
type Querier interface {
	Query(ctx context.Context, text string, k int) ([]domain.ScoredChunk, error)
}

// Translator normalizes queries to English before embedding.
type Translator interface {
	ToEnglish(ctx context.Context, text string) string
}
