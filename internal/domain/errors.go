package domain

import "errors"

// Sentinel errors shared across usecases; the HTTP transport maps them to
// status codes.
var (
	// ErrConversationNotFound is returned for unknown conversation IDs.
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrCorpusEmpty means the data directory yielded no usable documents.
	ErrCorpusEmpty = errors.New("corpus is empty")

	// ErrIndexEmpty means a persisted index exists but holds zero vectors.
	ErrIndexEmpty = errors.New("persisted index is empty")

	// ErrIndexAbsent means no index has been persisted yet.
	ErrIndexAbsent = errors.New("no persisted index")

	// ErrEmbedderUnavailable means no embedding credentials are configured.
	ErrEmbedderUnavailable = errors.New("embedding provider not configured")

	// ErrModelMismatch means the persisted index was built with a different
	// embedding model than the one configured for querying.
	ErrModelMismatch = errors.New("embedding model mismatch")

	// ErrRebuildInProgress means another index build holds the writer lock.
	ErrRebuildInProgress = errors.New("index rebuild already in progress")

	// ErrEmbeddingProviderError wraps upstream embedding API failures.
	ErrEmbeddingProviderError = errors.New("embedding provider error")

	// ErrLLMProviderError wraps upstream chat completion API failures.
	ErrLLMProviderError = errors.New("llm provider error")
)
