// Package vectorfile is the directory-backed vector index driver: a single
// JSON snapshot on disk, brute-force cosine search over the in-memory copy.
// Suits the small advisory corpora this service ships with; the redis driver
// covers larger deployments.
package vectorfile

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/krishisathi/sathi/internal/domain"
)

const snapshotFile = "index.json"

// Store persists (chunk, vector) pairs under a directory and answers
// nearest-neighbor queries from memory. Safe for concurrent reads;
// Replace swaps the in-memory snapshot atomically.
type Store struct {
	dir string

	mu      sync.RWMutex
	entries []domain.EmbeddedChunk
}

// New creates a file-backed vector store rooted at dir.
func New(dir string) *Store {
	return &Store{dir: dir}
}

type persistedIndex struct {
	Model      string           `json:"model"`
	Dimensions int              `json:"dimensions"`
	BuiltAt    time.Time        `json:"built_at"`
	Chunks     []persistedChunk `json:"chunks"`
}

type persistedChunk struct {
	Text   string    `json:"text"`
	Source string    `json:"source"`
	File   string    `json:"file"`
	Page   int       `json:"page"`
	Pos    int       `json:"pos"`
	Vector []float32 `json:"vector"`
}

// Exists reports whether a persisted snapshot is present on disk.
func (s *Store) Exists(_ context.Context) (bool, error) {
	_, err := os.Stat(s.path())
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("stat index snapshot: %w", err)
}

// Load hydrates the in-memory snapshot from disk. It distinguishes an
// absent snapshot (domain.ErrIndexAbsent) from a present-but-empty one
// (domain.ErrIndexEmpty) and from a corrupt file.
func (s *Store) Load(_ context.Context) (domain.IndexSnapshot, error) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return domain.IndexSnapshot{}, domain.ErrIndexAbsent
		}
		return domain.IndexSnapshot{}, fmt.Errorf("read index snapshot: %w", err)
	}

	var p persistedIndex
	if err := json.Unmarshal(data, &p); err != nil {
		return domain.IndexSnapshot{}, fmt.Errorf("parse index snapshot: %w", err)
	}

	meta := domain.IndexSnapshot{
		Model:      p.Model,
		Dimensions: p.Dimensions,
		Count:      len(p.Chunks),
		BuiltAt:    p.BuiltAt,
	}

	if len(p.Chunks) == 0 {
		return meta, domain.ErrIndexEmpty
	}

	entries := make([]domain.EmbeddedChunk, len(p.Chunks))
	for i, c := range p.Chunks {
		entries[i] = domain.EmbeddedChunk{
			Chunk: domain.Chunk{
				Text:   c.Text,
				Source: c.Source,
				File:   c.File,
				Page:   c.Page,
				Pos:    c.Pos,
			},
			Vector: c.Vector,
		}
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()

	return meta, nil
}

// Replace atomically writes a new snapshot (temp file + rename) and swaps
// the in-memory copy. The previous snapshot stays readable until the swap.
func (s *Store) Replace(_ context.Context, model string, dimensions int, entries []domain.EmbeddedChunk) error {
	p := persistedIndex{
		Model:      model,
		Dimensions: dimensions,
		BuiltAt:    time.Now().UTC(),
		Chunks:     make([]persistedChunk, len(entries)),
	}
	for i, e := range entries {
		p.Chunks[i] = persistedChunk{
			Text:   e.Chunk.Text,
			Source: e.Chunk.Source,
			File:   e.Chunk.File,
			Page:   e.Chunk.Page,
			Pos:    e.Chunk.Pos,
			Vector: e.Vector,
		}
	}

	data, err := json.Marshal(&p)
	if err != nil {
		return fmt.Errorf("encode index snapshot: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "index-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.path()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publish snapshot: %w", err)
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()

	return nil
}

// Search returns the k nearest chunks by cosine similarity over the loaded
// snapshot. An unloaded or empty snapshot yields an empty result.
func (s *Store) Search(_ context.Context, vector []float32, k int) ([]domain.ScoredChunk, error) {
	if k <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	entries := s.entries
	s.mu.RUnlock()

	if len(entries) == 0 {
		return nil, nil
	}

	hits := make([]domain.ScoredChunk, 0, len(entries))
	for _, e := range entries {
		hits = append(hits, domain.ScoredChunk{
			Chunk: e.Chunk,
			Score: cosineSimilarity(vector, e.Vector),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

func (s *Store) path() string {
	return filepath.Join(s.dir, snapshotFile)
}

// cosineSimilarity is clamped to [0,1] to match the redis driver's
// distance-to-similarity conversion.
func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim < 0 {
		return 0
	}
	return sim
}
