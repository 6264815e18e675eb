package retrieval

import (
	"context"

	"github.com/krishisathi/sathi/internal/domain"
)

// mockQuerier implements Querier for tests.
type mockQuerier struct {
	queryFn func(ctx context.Context, text string, k int) ([]domain.ScoredChunk, error)
}

func (m *mockQuerier) Query(ctx context.Context, text string, k int) ([]domain.ScoredChunk, error) {
	if m.queryFn != nil {
		return m.queryFn(ctx, text, k)
	}
	return nil, nil
}

// passthroughTranslator implements Translator without touching the text.
type passthroughTranslator struct{}

func (passthroughTranslator) ToEnglish(_ context.Context, text string) string {
	return text
}

func scored(text, source string, score float64) domain.ScoredChunk {
	return domain.ScoredChunk{
		Chunk: domain.Chunk{Text: text, Source: source},
		Score: score,
	}
}
