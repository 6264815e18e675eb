package vectorredis

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/krishisathi/sathi/internal/db"
)

// mockDB is an in-memory db.Store with per-method overrides.
type mockDB struct {
	mu      sync.Mutex
	hashes  map[string]map[string]string
	indexes map[string]*db.VectorIndexDefinition

	hgetAllFn     func(ctx context.Context, key string) (map[string]string, error)
	searchKNNFn   func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	createIndexFn func(ctx context.Context, def *db.VectorIndexDefinition) error
}

func newMockDB() *mockDB {
	return &mockDB{
		hashes:  make(map[string]map[string]string),
		indexes: make(map[string]*db.VectorIndexDefinition),
	}
}

func (m *mockDB) Ping(context.Context) error { return nil }

func (m *mockDB) Close() {}

func (m *mockDB) WaitForReady(context.Context, time.Duration) error { return nil }

func (m *mockDB) HSet(_ context.Context, key string, fields map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hashes[key]
	if !ok {
		h = make(map[string]string)
		m.hashes[key] = h
	}
	for k, v := range fields {
		h[k] = v
	}
	return nil
}

func (m *mockDB) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	for _, item := range items {
		if err := m.HSet(ctx, item.Key, item.Fields); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockDB) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.hashes[key]))
	for k, v := range m.hashes[key] {
		out[k] = v
	}
	return out, nil
}

func (m *mockDB) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	out := make([]map[string]string, len(keys))
	for i, key := range keys {
		fields, err := m.HGetAll(ctx, key)
		if err != nil {
			return nil, err
		}
		out[i] = fields
	}
	return out, nil
}

func (m *mockDB) HIncrBy(_ context.Context, key, field string, delta int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hashes[key]
	if !ok {
		h = make(map[string]string)
		m.hashes[key] = h
	}
	cur, _ := strconv.ParseInt(h[field], 10, 64)
	cur += delta
	h[field] = strconv.FormatInt(cur, 10)
	return cur, nil
}

func (m *mockDB) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.hashes, key)
	return nil
}

func (m *mockDB) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.hashes[key]
	return ok, nil
}

func (m *mockDB) Scan(_ context.Context, pattern string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := pattern
	if n := len(prefix); n > 0 && prefix[n-1] == '*' {
		prefix = prefix[:n-1]
	}
	var keys []string
	for k := range m.hashes {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (m *mockDB) CreateVectorIndex(ctx context.Context, def *db.VectorIndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.indexes[def.Name] = def
	return nil
}

func (m *mockDB) DropIndex(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.indexes, name)
	return nil
}

func (m *mockDB) IndexExists(_ context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.indexes[name]
	return ok, nil
}

func (m *mockDB) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

var _ db.Store = (*mockDB)(nil)
