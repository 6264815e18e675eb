package websearch

import "context"

// mockSearcher implements Searcher for tests.
type mockSearcher struct {
	searchFn func(ctx context.Context, query string) (string, error)
	probeFn  func(ctx context.Context) error
}

func (m *mockSearcher) Search(ctx context.Context, query string) (string, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query)
	}
	return "", nil
}

func (m *mockSearcher) Probe(ctx context.Context) error {
	if m.probeFn != nil {
		return m.probeFn(ctx)
	}
	return nil
}

// passthroughTranslator implements Translator without touching the text.
type passthroughTranslator struct{}

func (passthroughTranslator) ToEnglish(_ context.Context, text string) string {
	return text
}
