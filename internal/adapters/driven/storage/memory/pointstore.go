package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driven"
)

// Ensure PointStore implements the interface.
var _ driven.PointStore = (*PointStore)(nil)

type collection struct {
	vectorSize int
	distance   domain.Distance
	points     map[string]domain.IndexedPoint
}

// PointStore is an in-memory driven.PointStore with brute-force search.
type PointStore struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

// NewPointStore creates an empty point store.
func NewPointStore() *PointStore {
	return &PointStore{collections: make(map[string]*collection)}
}

// GetCollection describes a collection or returns domain.ErrNotFound.
func (s *PointStore) GetCollection(_ context.Context, name string) (*domain.CollectionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.CollectionInfo{
		VectorSize:  c.vectorSize,
		Distance:    c.distance,
		PointsCount: len(c.points),
	}, nil
}

// CreateCollection creates a collection. Recreating an existing one is a no-op.
func (s *PointStore) CreateCollection(_ context.Context, name string, vectorSize int, distance domain.Distance) error {
	if vectorSize <= 0 {
		return fmt.Errorf("%w: vector size must be positive", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[name]; ok {
		return nil
	}
	s.collections[name] = &collection{
		vectorSize: vectorSize,
		distance:   distance,
		points:     make(map[string]domain.IndexedPoint),
	}
	return nil
}

// DeleteCollection removes a collection.
func (s *PointStore) DeleteCollection(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections, name)
	return nil
}

// Upsert validates every point before writing any of them.
func (s *PointStore) Upsert(_ context.Context, name string, points []domain.IndexedPoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[name]
	if !ok {
		return fmt.Errorf("collection %s: %w", name, domain.ErrNotFound)
	}
	for _, p := range points {
		if len(p.Vector) != c.vectorSize {
			return fmt.Errorf("%w: point %s has %d dimensions, collection has %d",
				domain.ErrDimensionMismatch, p.ID, len(p.Vector), c.vectorSize)
		}
	}
	for _, p := range points {
		c.points[p.ID] = clonePoint(p)
	}
	return nil
}

// Search scores every matching point and returns the best limit.
func (s *PointStore) Search(
	_ context.Context,
	name string,
	vector []float32,
	limit int,
	filter domain.SearchFilter,
) ([]domain.ScoredPoint, error) {
	if limit <= 0 {
		return []domain.ScoredPoint{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("collection %s: %w", name, domain.ErrNotFound)
	}

	hits := make([]domain.ScoredPoint, 0, len(c.points))
	for _, p := range c.points {
		if !filter.Matches(p.Payload) {
			continue
		}
		hits = append(hits, domain.ScoredPoint{
			ID:      p.ID,
			Score:   domain.CosineSimilarity(vector, p.Vector),
			Payload: clonePayload(p.Payload),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score == hits[j].Score {
			return hits[i].ID < hits[j].ID
		}
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// Close is a no-op.
func (s *PointStore) Close() error {
	return nil
}

func clonePoint(p domain.IndexedPoint) domain.IndexedPoint {
	vec := make([]float32, len(p.Vector))
	copy(vec, p.Vector)
	return domain.IndexedPoint{ID: p.ID, Vector: vec, Payload: clonePayload(p.Payload)}
}

func clonePayload(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
