// Package vectorstore implements driven.VectorStore over an embedding
// service and a point store backend.
package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driven"
	"github.com/custodia-labs/docrag/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// idNamespace seeds deterministic point IDs.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/custodia-labs/docrag/points"))

// Config holds configuration for a Store.
type Config struct {
	// Collection is the collection name (default: chinchilla_docs).
	Collection string

	// DeterministicIDs derives point IDs from source, chunk index and
	// content so re-ingesting the same chunk overwrites it.
	DeterministicIDs bool
}

// Store owns one collection in a point store.
type Store struct {
	embedder      driven.EmbeddingService
	points        driven.PointStore
	collection    string
	deterministic bool

	mu         sync.Mutex
	vectorSize int
}

// New creates a Store.
func New(embedder driven.EmbeddingService, points driven.PointStore, cfg Config) *Store {
	if cfg.Collection == "" {
		cfg.Collection = domain.DefaultCollectionName
	}
	return &Store{
		embedder:      embedder,
		points:        points,
		collection:    cfg.Collection,
		deterministic: cfg.DeterministicIDs,
	}
}

// Collection returns the collection name.
func (s *Store) Collection() string {
	return s.collection
}

// VectorSize returns the dimension fixed by the first batch, or 0.
func (s *Store) VectorSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vectorSize
}

// EnsureOrCreateCollection creates the collection when it is absent.
func (s *Store) EnsureOrCreateCollection(ctx context.Context, vectorSize int) error {
	info, err := s.points.GetCollection(ctx, s.collection)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		if err := s.points.CreateCollection(ctx, s.collection, vectorSize, domain.DistanceCosine); err != nil {
			return err
		}
		logger.Info("created collection %s (size %d, %s)", s.collection, vectorSize, domain.DistanceCosine)
		return nil
	case err != nil:
		return fmt.Errorf("checking collection %s: %w", s.collection, err)
	case info.VectorSize != vectorSize:
		return fmt.Errorf("%w: collection %s has size %d, vectors have %d",
			domain.ErrDimensionMismatch, s.collection, info.VectorSize, vectorSize)
	}
	return nil
}

// AddDocuments embeds the chunks and upserts them as one batch.
func (s *Store) AddDocuments(ctx context.Context, chunks []domain.Chunk) bool {
	if len(chunks) == 0 {
		logger.Warn("no chunks to add")
		return false
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		logger.Error("embedding %d chunks: %v", len(chunks), err)
		return false
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		logger.Warn("embedder returned no vectors")
		return false
	}
	if len(vectors) != len(chunks) {
		logger.Error("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	size := s.vectorSize
	if size == 0 {
		size = len(vectors[0])
	}
	for i, v := range vectors {
		if len(v) != size {
			logger.Error("%v: chunk %d has %d dimensions, expected %d",
				domain.ErrDimensionMismatch, i, len(v), size)
			return false
		}
	}

	if err := s.EnsureOrCreateCollection(ctx, size); err != nil {
		logger.Error("ensuring collection: %v", err)
		return false
	}
	s.vectorSize = size

	points := make([]domain.IndexedPoint, len(chunks))
	for i, c := range chunks {
		points[i] = domain.IndexedPoint{
			ID:      s.pointID(c),
			Vector:  vectors[i],
			Payload: payloadFor(c),
		}
	}

	if err := s.points.Upsert(ctx, s.collection, points); err != nil {
		logger.Error("upserting %d points: %v", len(points), err)
		return false
	}

	logger.Info("added %d chunks to %s", len(points), s.collection)
	return true
}

// SimilaritySearch returns the k chunks nearest to query.
// A collection that does not exist yet yields no results.
func (s *Store) SimilaritySearch(
	ctx context.Context,
	query string,
	k int,
	filter domain.SearchFilter,
) ([]domain.QueryResult, error) {
	if k <= 0 {
		return []domain.QueryResult{}, nil
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	hits, err := s.points.Search(ctx, s.collection, vector, k, filter)
	if errors.Is(err, domain.ErrNotFound) {
		return []domain.QueryResult{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", s.collection, err)
	}

	results := make([]domain.QueryResult, 0, len(hits))
	for _, h := range hits {
		results = append(results, resultFor(h))
	}
	return results, nil
}

// GetStats describes the collection. Failures land in the Error field.
func (s *Store) GetStats(ctx context.Context) domain.CollectionStats {
	info, err := s.points.GetCollection(ctx, s.collection)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.CollectionStats{Exists: false}
	}
	if err != nil {
		return domain.CollectionStats{Exists: false, Error: err.Error()}
	}
	return domain.CollectionStats{
		Exists:      true,
		PointsCount: info.PointsCount,
		VectorSize:  info.VectorSize,
		Distance:    info.Distance,
	}
}

// DeleteCollection drops the collection. Failures are logged.
func (s *Store) DeleteCollection(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.points.DeleteCollection(ctx, s.collection); err != nil {
		logger.Error("deleting collection %s: %v", s.collection, err)
		return false
	}
	s.vectorSize = 0
	logger.Info("deleted collection %s", s.collection)
	return true
}

// Close releases the point store.
func (s *Store) Close() error {
	return s.points.Close()
}

func (s *Store) pointID(c domain.Chunk) string {
	if !s.deterministic {
		return uuid.NewString()
	}
	return DeterministicID(c)
}

// DeterministicID derives a UUIDv5 from a chunk's source, chunk index and content.
func DeterministicID(c domain.Chunk) string {
	idx := c.Metadata.String(domain.MetaChunkIndex)
	key := c.Metadata.String(domain.MetaSource) + "|" + idx + "|" + c.Content
	return uuid.NewSHA1(idNamespace, []byte(key)).String()
}

func payloadFor(c domain.Chunk) map[string]any {
	payload := make(map[string]any, len(c.Metadata)+1)
	for k, v := range c.Metadata {
		payload[k] = v
	}
	payload[domain.PayloadText] = c.Content
	return payload
}

func resultFor(h domain.ScoredPoint) domain.QueryResult {
	md := make(map[string]any, len(h.Payload))
	var text string
	for k, v := range h.Payload {
		if k == domain.PayloadText {
			text = domain.Stringify(v)
			continue
		}
		md[k] = v
	}
	md[domain.MetaScore] = h.Score
	return domain.QueryResult{Text: text, Metadata: md}
}
