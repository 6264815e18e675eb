// Package chihttp is the JSON HTTP transport: chi routing, request
// decoding, and the sentinel-to-status error mapping.
package chihttp

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/krishisathi/sathi/internal/domain"
	healthuc "github.com/krishisathi/sathi/internal/usecase/health"
	indexuc "github.com/krishisathi/sathi/internal/usecase/index"
)

// Conversations is the conversation persistence contract.
type Conversations interface {
	Create(ctx context.Context) (domain.Conversation, error)
	Get(ctx context.Context, id string) (domain.Conversation, error)
	AppendTurn(ctx context.Context, convID string, role domain.Role, text string) (domain.Turn, error)
}

// Responder produces the assistant answer for one user message.
type Responder interface {
	Respond(ctx context.Context, message string, history []domain.Turn) string
}

// DocumentSearcher answers raw similarity queries for diagnostics.
type DocumentSearcher interface {
	Search(ctx context.Context, query string, k int) ([]domain.ScoredChunk, error)
}

// Indexer controls the vector index lifecycle.
type Indexer interface {
	Build(ctx context.Context, force bool) (domain.IndexSnapshot, error)
	Status(ctx context.Context) indexuc.Status
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server holds the HTTP handlers.
type Server struct {
	conversations Conversations
	responder     Responder
	searcher      DocumentSearcher
	indexer       Indexer
	health        HealthChecker
	logger        *zap.Logger

	defaultK int
}

// Config holds server dependencies.
type Config struct {
	Conversations Conversations
	Responder     Responder
	Searcher      DocumentSearcher
	Indexer       Indexer
	Health        HealthChecker
	DefaultK      int
	Logger        *zap.Logger
}

// NewServer creates the HTTP API server.
func NewServer(cfg *Config) *Server {
	return &Server{
		conversations: cfg.Conversations,
		responder:     cfg.Responder,
		searcher:      cfg.Searcher,
		indexer:       cfg.Indexer,
		health:        cfg.Health,
		defaultK:      cfg.DefaultK,
		logger:        cfg.Logger,
	}
}

// Routes registers all handlers on r.
func (s *Server) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/chats", s.createChat)
		r.Get("/chats/{chatID}/messages", s.getChatMessages)
		r.Post("/messages", s.sendMessage)
		r.Post("/documents/search", s.searchDocuments)
		r.Post("/index/rebuild", s.rebuildIndex)
		r.Get("/index/status", s.indexStatus)
	})
	r.Get("/healthz", s.healthz)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}

// createChat handles POST /api/chats.
func (s *Server) createChat(w http.ResponseWriter, r *http.Request) {
	conv, err := s.conversations.Create(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, chatResponse{
		ChatID:    conv.ID,
		CreatedAt: conv.CreatedAt,
	})
}

// getChatMessages handles GET /api/chats/{chatID}/messages.
func (s *Server) getChatMessages(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")

	conv, err := s.conversations.Get(r.Context(), chatID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	resp := messageListResponse{
		ChatID:   conv.ID,
		Messages: make([]messageResponse, len(conv.Turns)),
	}
	for i, t := range conv.Turns {
		resp.Messages[i] = turnToMessage(t)
	}
	writeJSON(w, http.StatusOK, resp)
}

// sendMessage handles POST /api/messages.
func (s *Server) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.ChatID == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "chat_id is required")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "message is required")
		return
	}

	ctx := r.Context()

	conv, err := s.conversations.Get(ctx, req.ChatID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	userTurn, err := s.conversations.AppendTurn(ctx, conv.ID, domain.RoleUser, req.Message)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	answer := s.responder.Respond(ctx, req.Message, conv.Turns)

	assistantTurn, err := s.conversations.AppendTurn(ctx, conv.ID, domain.RoleAssistant, answer)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, sendMessageResponse{
		UserMessage:      turnToMessage(userTurn),
		AssistantMessage: turnToMessage(assistantTurn),
	})
}

// searchDocuments handles POST /api/documents/search.
func (s *Server) searchDocuments(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "query is required")
		return
	}
	if req.K <= 0 {
		req.K = s.defaultK
	}

	hits, err := s.searcher.Search(r.Context(), req.Query, req.K)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hitsToResponse(req.Query, hits))
}

// rebuildIndex handles POST /api/index/rebuild.
func (s *Server) rebuildIndex(w http.ResponseWriter, r *http.Request) {
	var req rebuildRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
			return
		}
	}

	snap, err := s.indexer.Build(r.Context(), req.Force)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rebuildResponse{
		State:          string(domain.IndexReady),
		DocumentCount:  snap.Count,
		EmbeddingModel: snap.Model,
		BuiltAt:        snap.BuiltAt,
	})
}

// indexStatus handles GET /api/index/status.
func (s *Server) indexStatus(w http.ResponseWriter, r *http.Request) {
	st := s.indexer.Status(r.Context())
	writeJSON(w, http.StatusOK, statusResponse{
		State:               string(st.State),
		DocumentCount:       st.DocumentCount,
		EmbeddingsAvailable: st.EmbedderReady,
		EmbeddingModel:      st.EmbeddingModel,
	})
}

// healthz handles GET /healthz.
func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}
