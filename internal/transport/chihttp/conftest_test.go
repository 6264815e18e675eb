package chihttp

import (
	"context"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/krishisathi/sathi/internal/domain"
	healthuc "github.com/krishisathi/sathi/internal/usecase/health"
	indexuc "github.com/krishisathi/sathi/internal/usecase/index"
)

// mockConversations implements Conversations.
type mockConversations struct {
	createFn func(ctx context.Context) (domain.Conversation, error)
	getFn    func(ctx context.Context, id string) (domain.Conversation, error)
	appendFn func(ctx context.Context, convID string, role domain.Role, text string) (domain.Turn, error)
}

func (m *mockConversations) Create(ctx context.Context) (domain.Conversation, error) {
	if m.createFn != nil {
		return m.createFn(ctx)
	}
	return domain.Conversation{ID: "conv-1", CreatedAt: time.Now()}, nil
}

func (m *mockConversations) Get(ctx context.Context, id string) (domain.Conversation, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return domain.Conversation{ID: id, CreatedAt: time.Now()}, nil
}

func (m *mockConversations) AppendTurn(ctx context.Context, convID string, role domain.Role, text string) (domain.Turn, error) {
	if m.appendFn != nil {
		return m.appendFn(ctx, convID, role, text)
	}
	return domain.Turn{ID: "turn-1", Role: role, Text: text, CreatedAt: time.Now()}, nil
}

// mockResponder implements Responder.
type mockResponder struct {
	respondFn func(ctx context.Context, message string, history []domain.Turn) string
}

func (m *mockResponder) Respond(ctx context.Context, message string, history []domain.Turn) string {
	if m.respondFn != nil {
		return m.respondFn(ctx, message, history)
	}
	return "assistant reply"
}

// mockSearcher implements DocumentSearcher.
type mockSearcher struct {
	searchFn func(ctx context.Context, query string, k int) ([]domain.ScoredChunk, error)
}

func (m *mockSearcher) Search(ctx context.Context, query string, k int) ([]domain.ScoredChunk, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, k)
	}
	return nil, nil
}

// mockIndexer implements Indexer.
type mockIndexer struct {
	buildFn  func(ctx context.Context, force bool) (domain.IndexSnapshot, error)
	statusFn func(ctx context.Context) indexuc.Status
}

func (m *mockIndexer) Build(ctx context.Context, force bool) (domain.IndexSnapshot, error) {
	if m.buildFn != nil {
		return m.buildFn(ctx, force)
	}
	return domain.IndexSnapshot{Model: "test-model", Count: 10, BuiltAt: time.Now()}, nil
}

func (m *mockIndexer) Status(ctx context.Context) indexuc.Status {
	if m.statusFn != nil {
		return m.statusFn(ctx)
	}
	return indexuc.Status{State: domain.IndexReady, DocumentCount: 10, EmbedderReady: true, EmbeddingModel: "test-model"}
}

// mockHealth implements HealthChecker.
type mockHealth struct {
	checkFn func(ctx context.Context) healthuc.Report
}

func (m *mockHealth) Check(ctx context.Context) healthuc.Report {
	if m.checkFn != nil {
		return m.checkFn(ctx)
	}
	return healthuc.Report{
		Status: healthuc.Healthy,
		Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckOK},
	}
}

type serverMocks struct {
	conversations *mockConversations
	responder     *mockResponder
	searcher      *mockSearcher
	indexer       *mockIndexer
	health        *mockHealth
}

func newTestServer(m *serverMocks) *httptest.Server {
	if m.conversations == nil {
		m.conversations = &mockConversations{}
	}
	if m.responder == nil {
		m.responder = &mockResponder{}
	}
	if m.searcher == nil {
		m.searcher = &mockSearcher{}
	}
	if m.indexer == nil {
		m.indexer = &mockIndexer{}
	}
	if m.health == nil {
		m.health = &mockHealth{}
	}

	s := NewServer(&Config{
		Conversations: m.conversations,
		Responder:     m.responder,
		Searcher:      m.searcher,
		Indexer:       m.indexer,
		Health:        m.health,
		DefaultK:      3,
		Logger:        zap.NewNop(),
	})

	r := chi.NewRouter()
	s.Routes(r)
	return httptest.NewServer(r)
}
