// Package retrieval turns index hits into the document context block fed to
// the prompt composer, with an explicit outcome so callers can tell "nothing
// relevant" from "retrieval broke".
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/krishisathi/sathi/internal/domain"
	"github.com/krishisathi/sathi/internal/metrics"
)

// Service retrieves document context for a user query.
type Service struct {
	querier    Querier
	translator Translator
	logger     *zap.Logger
}

// New creates a retrieval service.
func New(querier Querier, translator Translator, logger *zap.Logger) *Service {
	return &Service{querier: querier, translator: translator, logger: logger}
}

// Context retrieves up to maxDocs chunks for query and formats them into one
// context block. It never returns a Go error; failures are carried in the
// result so the orchestrator can degrade instead of aborting.
func (s *Service) Context(ctx context.Context, query string, maxDocs int) domain.RetrievalResult {
	searchQuery := s.translator.ToEnglish(ctx, query)

	hits, err := s.querier.Query(ctx, searchQuery, maxDocs)
	if err != nil {
		s.logger.Error("retrieval failed", zap.Error(err))
		metrics.RetrievalResultsTotal.WithLabelValues("failed").Inc()
		return domain.RetrievalResult{Kind: domain.Failed, Err: err}
	}

	if len(hits) == 0 {
		metrics.RetrievalResultsTotal.WithLabelValues("empty").Inc()
		return domain.RetrievalResult{Kind: domain.Empty}
	}

	metrics.RetrievalResultsTotal.WithLabelValues("retrieved").Inc()
	return domain.RetrievalResult{
		Kind:    domain.Retrieved,
		Context: formatContext(hits),
	}
}

// Search exposes raw scored hits for the diagnostic search endpoint.
func (s *Service) Search(ctx context.Context, query string, k int) ([]domain.ScoredChunk, error) {
	searchQuery := s.translator.ToEnglish(ctx, query)
	return s.querier.Query(ctx, searchQuery, k)
}

// formatContext renders hits in rank order, one block per source.
func formatContext(hits []domain.ScoredChunk) string {
	blocks := make([]string, len(hits))
	for i, h := range hits {
		blocks[i] = fmt.Sprintf("Source %d (%s):\n%s", i+1, h.Chunk.Source, h.Chunk.Text)
	}
	return strings.Join(blocks, "\n\n---\n\n")
}
