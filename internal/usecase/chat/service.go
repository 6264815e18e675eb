// Package chat orchestrates one conversational exchange. The contract is
// strict: Respond always produces an answer string. Every pipeline stage
// degrades (empty context, placeholder reply, apology) instead of
// propagating an error to the caller.
package chat

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/krishisathi/sathi/internal/domain"
)

// Service runs the full answer pipeline for a user message.
type Service struct {
	retriever Retriever
	searcher  WebSearcher
	composer  Composer
	completer domain.Completer // nil when no chat provider is configured
	logger    *zap.Logger

	maxContextDocs int
}

// Config holds the chat orchestrator settings.
type Config struct {
	Retriever      Retriever
	Searcher       WebSearcher
	Composer       Composer
	Completer      domain.Completer
	MaxContextDocs int
	Logger         *zap.Logger
}

// New creates a chat orchestrator.
func New(cfg *Config) *Service {
	return &Service{
		retriever:      cfg.Retriever,
		searcher:       cfg.Searcher,
		composer:       cfg.Composer,
		completer:      cfg.Completer,
		maxContextDocs: cfg.MaxContextDocs,
		logger:         cfg.Logger,
	}
}

// Respond answers one user message given the conversation history. It never
// returns an error: degraded stages shrink the context, a missing chat
// provider yields a fixed placeholder, and a provider failure yields an
// apology carrying the error detail.
func (s *Service) Respond(ctx context.Context, message string, history []domain.Turn) string {
	log := s.logger.With(zap.String("language", string(domain.DetectLanguage(message))))

	docRes := s.retriever.Context(ctx, message, s.maxContextDocs)
	switch docRes.Kind {
	case domain.Retrieved:
		log.Debug("document context attached")
	case domain.Empty:
		log.Debug("no relevant documents")
	case domain.Failed:
		log.Warn("document retrieval degraded", zap.Error(docRes.Err))
	}

	searchContext := s.searcher.Context(ctx, message)

	if s.completer == nil {
		return fmt.Sprintf(
			"This is a mock response to: '%s'. Please configure an LLM API key for actual AI responses.",
			message)
	}

	messages := s.composer.Compose(history, message, docRes.Context, searchContext)

	reply, err := s.completer.Complete(ctx, messages)
	if err != nil {
		log.Error("chat completion failed", zap.Error(err))
		return fmt.Sprintf(
			"I apologize, but I encountered an error processing your message. Error: %s",
			err)
	}
	return reply
}
