package domain

// RetrievalKind distinguishes "nothing relevant" from "lookup broke" so
// callers can degrade gracefully while still logging real failures.
type RetrievalKind string

const (
	// Retrieved means the context block carries at least one ranked chunk.
	Retrieved RetrievalKind = "retrieved"
	// Empty means the search ran but matched nothing, or no index exists.
	Empty RetrievalKind = "empty"
	// Failed means the lookup itself broke (embedding or store error).
	Failed RetrievalKind = "failed"
)

// RetrievalResult is the outcome of a document context lookup.
type RetrievalResult struct {
	Kind    RetrievalKind
	Context string // provenance-annotated block, empty unless Kind == Retrieved
	Err     error  // set only when Kind == Failed
}
