package chat

import (
	"context"

	"github.com/krishisathi/sathi/internal/domain"
)

// Retriever supplies the document-grounded context block.
type Retriever interface {
	Context(ctx context.Context, query string, maxDocs int) domain.RetrievalResult
}

// WebSearcher supplies the live-search context block, empty on any failure.
type WebSearcher interface {
	Context(ctx context.Context, query string) string
}

// Composer assembles the final message list for the chat model.
type Composer interface {
	Compose(history []domain.Turn, current, docContext, searchContext string) []domain.Message
}
