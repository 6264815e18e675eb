package domain

// Document is one page of raw corpus text with provenance metadata.
// Documents are immutable once loaded; re-ingestion produces new values.
type Document struct {
	Text   string
	Source string // display name of the originating file
	File   string // absolute path of the originating file
	Page   int    // 1-based page number within the file
}

// Chunk is a bounded, overlapping slice of a Document. Chunks, not whole
// documents, are the unit of embedding and retrieval.
type Chunk struct {
	Text   string
	Source string
	File   string
	Page   int
	Pos    int // 0-based position of the chunk within its document
}

// ScoredChunk is a retrieval hit: a chunk plus its similarity score.
// Higher scores mean closer matches.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}
