package driven

import (
	"context"

	"github.com/custodia-labs/docrag/internal/core/domain"
)

// VectorStore owns one named collection of indexed points.
// Failures at this boundary are absorbed: insertion and deletion report
// a boolean, statistics carry an error field.
type VectorStore interface {
	// EnsureOrCreateCollection creates the collection with cosine distance
	// if it does not exist. Returns domain.ErrDimensionMismatch when it
	// exists with a different vector size.
	EnsureOrCreateCollection(ctx context.Context, vectorSize int) error

	// AddDocuments embeds and upserts the chunks as a single batch.
	AddDocuments(ctx context.Context, chunks []domain.Chunk) bool

	// SimilaritySearch returns the k nearest chunks to query, restricted
	// by filter. k <= 0 yields an empty result.
	SimilaritySearch(ctx context.Context, query string, k int, filter domain.SearchFilter) ([]domain.QueryResult, error)

	// GetStats describes the collection.
	GetStats(ctx context.Context) domain.CollectionStats

	// DeleteCollection removes the collection and all its points.
	DeleteCollection(ctx context.Context) bool

	// Close releases resources.
	Close() error
}

// PointStore is the persistence backend behind a VectorStore.
// Implementations include SQLite, Qdrant, PostgreSQL/pgvector and memory.
type PointStore interface {
	// GetCollection returns the collection description, or
	// domain.ErrNotFound when it does not exist.
	GetCollection(ctx context.Context, name string) (*domain.CollectionInfo, error)

	// CreateCollection creates a collection with the given size and metric.
	CreateCollection(ctx context.Context, name string, vectorSize int, distance domain.Distance) error

	// DeleteCollection removes a collection. Deleting a missing collection
	// is not an error.
	DeleteCollection(ctx context.Context, name string) error

	// Upsert writes all points atomically where the backend allows it.
	Upsert(ctx context.Context, name string, points []domain.IndexedPoint) error

	// Search returns up to limit points ordered by descending cosine
	// similarity, restricted to payloads matching every condition.
	Search(ctx context.Context, name string, vector []float32, limit int, filter domain.SearchFilter) ([]domain.ScoredPoint, error)

	// Close releases resources.
	Close() error
}
