package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// MemoryStore is an in-process VectorStore with exact cosine search. It backs
// QDRANT_URL=memory:// for local runs and tests. Contents are lost on exit.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
}

type memoryCollection struct {
	vectorSize int
	points     []Point // Insertion order; upserts replace in place
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]*memoryCollection)}
}

// HealthCheck always succeeds.
func (s *MemoryStore) HealthCheck(context.Context) error {
	return nil
}

// Close is a no-op; contents stay readable until the store is dropped.
func (s *MemoryStore) Close() error {
	return nil
}

// CollectionExists checks if a collection exists.
func (s *MemoryStore) CollectionExists(_ context.Context, collection string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.collections[collection]
	return ok, nil
}

// EnsureCollection creates the collection when absent and validates the vector size otherwise.
// Payload indexes are implicit.
func (s *MemoryStore) EnsureCollection(_ context.Context, collection string, vectorSize int, _ []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[collection]
	if !ok {
		s.collections[collection] = &memoryCollection{vectorSize: vectorSize}
		return nil
	}
	if c.vectorSize != vectorSize {
		return fmt.Errorf("collection vector size mismatch: expected %d, got %d", vectorSize, c.vectorSize)
	}
	return nil
}

func (s *MemoryStore) collection(name string) (*memoryCollection, error) {
	c, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("collection %s not found", name)
	}
	return c, nil
}

// Upsert inserts or replaces points by ID.
func (s *MemoryStore) Upsert(_ context.Context, collection string, points []Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.collection(collection)
	if err != nil {
		return err
	}

	for _, p := range points {
		if len(p.Vec) != c.vectorSize {
			return fmt.Errorf("point %s has size %d, expected %d", p.ID, len(p.Vec), c.vectorSize)
		}
	}

	for _, p := range points {
		stored := Point{ID: p.ID, Vec: append([]float32(nil), p.Vec...), Meta: copyMeta(p.Meta)}
		replaced := false
		for i := range c.points {
			if c.points[i].ID == p.ID {
				c.points[i] = stored
				replaced = true
				break
			}
		}
		if !replaced {
			c.points = append(c.points, stored)
		}
	}
	return nil
}

// Search returns the k points most similar to query among those matching filter.
func (s *MemoryStore) Search(_ context.Context, collection string, query []float32, k int, filter *Filter, withVectors bool) ([]SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0, got %d", k)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, err := s.collection(collection)
	if err != nil {
		return nil, err
	}

	var results []SearchResult
	for _, p := range c.points {
		if !filter.Matches(p.Meta) {
			continue
		}
		r := SearchResult{
			PointID: p.ID,
			Score:   CosineSimilarity(query, p.Vec),
			Meta:    copyMeta(p.Meta),
		}
		if withVectors {
			r.Vec = append([]float32(nil), p.Vec...)
		}
		results = append(results, r)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Scroll returns up to limit points in insertion order with only the requested payload fields.
func (s *MemoryStore) Scroll(_ context.Context, collection string, limit int, fields []string) ([]Record, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than 0, got %d", limit)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, err := s.collection(collection)
	if err != nil {
		return nil, err
	}

	var records []Record
	for _, p := range c.points {
		if len(records) == limit {
			break
		}
		meta := make(map[string]any, len(fields))
		for _, f := range fields {
			if v, ok := p.Meta[f]; ok {
				meta[f] = v
			}
		}
		records = append(records, Record{PointID: p.ID, Meta: meta})
	}
	return records, nil
}

// DeleteByFilter removes every point matching filter. An empty filter is rejected.
func (s *MemoryStore) DeleteByFilter(_ context.Context, collection string, filter *Filter) error {
	if filter == nil || (len(filter.Must) == 0 && len(filter.Should) == 0) {
		return fmt.Errorf("refusing to delete with an empty filter")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.collection(collection)
	if err != nil {
		return err
	}

	kept := c.points[:0]
	for _, p := range c.points {
		if !filter.Matches(p.Meta) {
			kept = append(kept, p)
		}
	}
	c.points = kept
	return nil
}

// GetCollectionInfo returns the vector size and point count of a collection.
func (s *MemoryStore) GetCollectionInfo(_ context.Context, collection string) (*CollectionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, err := s.collection(collection)
	if err != nil {
		return nil, err
	}
	return &CollectionInfo{VectorSize: c.vectorSize, PointsCount: len(c.points), Status: "green"}, nil
}

// Matches reports whether a payload satisfies the filter. A nil filter matches everything.
func (f *Filter) Matches(meta map[string]any) bool {
	if f == nil {
		return true
	}
	for _, m := range f.Must {
		if !m.matches(meta) {
			return false
		}
	}
	if len(f.Should) == 0 {
		return true
	}
	for _, m := range f.Should {
		if m.matches(meta) {
			return true
		}
	}
	return false
}

func (m Match) matches(meta map[string]any) bool {
	v, ok := meta[m.Key].(string)
	return ok && v == m.Value
}

// CosineSimilarity returns the cosine of the angle between a and b, or 0 when
// either is a zero vector or their lengths differ.
func CosineSimilarity(a, b []float32) float32 {
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

func copyMeta(meta map[string]any) map[string]any {
	if meta == nil {
		return nil
	}
	out := make(map[string]any, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}
