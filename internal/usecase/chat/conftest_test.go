package chat

import (
	"context"

	"go.uber.org/zap"

	"github.com/krishisathi/sathi/internal/domain"
)

// mockRetriever implements Retriever.
type mockRetriever struct {
	contextFn func(ctx context.Context, query string, maxDocs int) domain.RetrievalResult
}

func (m *mockRetriever) Context(ctx context.Context, query string, maxDocs int) domain.RetrievalResult {
	if m.contextFn != nil {
		return m.contextFn(ctx, query, maxDocs)
	}
	return domain.RetrievalResult{Kind: domain.Empty}
}

// mockSearcher implements WebSearcher.
type mockSearcher struct {
	contextFn func(ctx context.Context, query string) string
}

func (m *mockSearcher) Context(ctx context.Context, query string) string {
	if m.contextFn != nil {
		return m.contextFn(ctx, query)
	}
	return ""
}

// mockComposer implements Composer and records its inputs.
type mockComposer struct {
	gotHistory []domain.Turn
	gotCurrent string
	gotDoc     string
	gotSearch  string
}

func (m *mockComposer) Compose(history []domain.Turn, current, docContext, searchContext string) []domain.Message {
	m.gotHistory = history
	m.gotCurrent = current
	m.gotDoc = docContext
	m.gotSearch = searchContext
	return []domain.Message{
		{Role: domain.MessageRoleSystem, Content: "system"},
		{Role: domain.MessageRoleUser, Content: current},
	}
}

// mockCompleter implements domain.Completer.
type mockCompleter struct {
	completeFn func(ctx context.Context, messages []domain.Message) (string, error)
}

func (m *mockCompleter) Complete(ctx context.Context, messages []domain.Message) (string, error) {
	if m.completeFn != nil {
		return m.completeFn(ctx, messages)
	}
	return "llm answer", nil
}

func newTestService(completer domain.Completer, retriever Retriever, searcher WebSearcher, composer Composer) *Service {
	if retriever == nil {
		retriever = &mockRetriever{}
	}
	if searcher == nil {
		searcher = &mockSearcher{}
	}
	if composer == nil {
		composer = &mockComposer{}
	}
	return New(&Config{
		Retriever:      retriever,
		Searcher:       searcher,
		Composer:       composer,
		Completer:      completer,
		MaxContextDocs: 3,
		Logger:         zap.NewNop(),
	})
}
