package websearch

import "context"

// Searcher runs one live search query and returns flattened snippet text.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
	Probe(ctx context.Context) error
}

// Translator normalizes queries to English before searching.
type Translator interface {
	ToEnglish(ctx context.Context, text string) string
}
