// Package websearch augments answers with live search results. The whole
// stage is best-effort: any failure degrades to an empty context block so
// the conversation flow never stalls on the search provider.
package websearch

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/krishisathi/sathi/internal/metrics"
)

// farmingKeywords mark a query as already carrying farming context; such
// queries are left alone except for an optional Nepal hint.
var farmingKeywords = []string{
	"farming", "agriculture", "crop", "pest", "disease",
	"fertilizer", "pesticide", "organic farming", "Nepal farming",
}

const fallbackSuffix = "farming agriculture Nepal practical solution"

// Service retrieves live farming context for a user query.
type Service struct {
	searcher   Searcher
	translator Translator
	logger     *zap.Logger
	available  bool
}

// New creates a web search service and probes the provider once. An
// unreachable provider disables the stage rather than failing startup.
func New(ctx context.Context, searcher Searcher, translator Translator, logger *zap.Logger) *Service {
	s := &Service{
		searcher:   searcher,
		translator: translator,
		logger:     logger,
	}

	if searcher == nil {
		logger.Warn("web search disabled: no provider configured")
		return s
	}

	if err := searcher.Probe(ctx); err != nil {
		logger.Warn("web search disabled: provider unreachable", zap.Error(err))
		return s
	}

	s.available = true
	logger.Info("web search provider ready")
	return s
}

// Available reports whether the search stage is active.
func (s *Service) Available() bool {
	return s.available
}

// Context searches for practical solutions related to query and returns a
// labeled context block. Any failure yields an empty string.
func (s *Service) Context(ctx context.Context, query string) string {
	if !s.available {
		return ""
	}

	searchQuery := s.translator.ToEnglish(ctx, query)
	enhanced := enhanceQuery(searchQuery)

	results, err := s.searcher.Search(ctx, enhanced)
	if err != nil {
		s.logger.Error("web search failed", zap.Error(err))
		metrics.WebSearchRequestsTotal.WithLabelValues("error").Inc()
		return ""
	}
	if strings.TrimSpace(results) == "" {
		metrics.WebSearchRequestsTotal.WithLabelValues("empty").Inc()
		return ""
	}

	metrics.WebSearchRequestsTotal.WithLabelValues("success").Inc()
	return fmt.Sprintf(
		"### Current Farming Solutions and Information (Related to: %s)\n\n%s",
		query, results)
}

// enhanceQuery adds farming and Nepal context. Idempotent: a query that
// already mentions a farming keyword is only given the Nepal hint, so
// re-enrichment never stacks suffixes.
func enhanceQuery(query string) string {
	lower := strings.ToLower(query)

	hasFarmingContext := false
	for _, kw := range farmingKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			hasFarmingContext = true
			break
		}
	}

	if hasFarmingContext {
		if !strings.Contains(lower, "nepal") {
			return query + " Nepal"
		}
		return query
	}
	return query + " " + fallbackSuffix
}
