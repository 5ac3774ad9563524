package rag

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"
)

// ErrUnknownCollection indicates a search against a collection that was
// never created.
var ErrUnknownCollection = errors.New("rag: unknown collection")

// InMemoryStore is an in-process VectorStore for demos and tests that do
// not have a qdrant instance available.
type InMemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]Point
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{collections: make(map[string][]Point)}
}

// CreateCollection registers a collection. Vector size is not enforced.
func (m *InMemoryStore) CreateCollection(_ context.Context, name string, _ uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.collections[name]; !ok {
		m.collections[name] = nil
	}
	return nil
}

// Upsert replaces points by ID, appending new ones.
func (m *InMemoryStore) Upsert(_ context.Context, collection string, points []Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing := m.collections[collection]
	for _, p := range points {
		replaced := false
		for i := range existing {
			if existing[i].ID == p.ID {
				existing[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			existing = append(existing, p)
		}
	}
	m.collections[collection] = existing
	return nil
}

// Search ranks stored points by cosine similarity.
func (m *InMemoryStore) Search(_ context.Context, collection string, vector []float32, limit int, scoreThreshold float32) ([]SearchResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	points, ok := m.collections[collection]
	if !ok {
		return nil, ErrUnknownCollection
	}

	results := make([]SearchResult, 0, len(points))
	for _, p := range points {
		score := cosine(vector, p.Vector)
		if score < scoreThreshold {
			continue
		}
		results = append(results, SearchResult{ID: p.ID, Score: score, Point: p})
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func cosine(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

var _ VectorStore = (*InMemoryStore)(nil)
