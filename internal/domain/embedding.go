package domain

import "context"

// EmbeddingResult is a fixed-dimension vector plus the token usage the
// provider reported for producing it.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Embedder vectorizes a single text.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// Completer produces one chat completion for an ordered, role-tagged prompt.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// HealthChecker is implemented by transports that can probe their upstream.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
