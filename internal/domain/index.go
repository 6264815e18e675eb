package domain

import "time"

// EmbeddedChunk pairs a chunk with its embedding vector. Vectors are never
// mutated after creation; re-embedding requires a full index rebuild.
type EmbeddedChunk struct {
	Chunk  Chunk
	Vector []float32
}

// IndexSnapshot describes a persisted vector index without its payload.
type IndexSnapshot struct {
	Model      string // embedding model the index was built with
	Dimensions int
	Count      int
	BuiltAt    time.Time
}

// IndexState is the lifecycle state of the vector index.
type IndexState string

const (
	// IndexEmpty means nothing is persisted or loaded.
	IndexEmpty IndexState = "empty"
	// IndexBuilding means a bulk embedding + insert pass is running.
	IndexBuilding IndexState = "building"
	// IndexReady means the index is queryable.
	IndexReady IndexState = "ready"
	// IndexStale means a rebuild was requested while READY; queries keep
	// using the previous snapshot until the rebuild lands.
	IndexStale IndexState = "stale"
)
