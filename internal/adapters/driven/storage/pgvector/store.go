// Package pgvector provides a point store backed by PostgreSQL with the
// pgvector extension.
package pgvector

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/pgvector/pgvector-go"

	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.PointStore = (*Store)(nil)

const schema = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS docrag_collections (
	name        TEXT PRIMARY KEY,
	vector_size INTEGER NOT NULL,
	distance    TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS docrag_points (
	collection TEXT NOT NULL REFERENCES docrag_collections(name) ON DELETE CASCADE,
	id         TEXT NOT NULL,
	embedding  vector NOT NULL,
	payload    JSONB NOT NULL DEFAULT '{}'::jsonb,
	PRIMARY KEY (collection, id)
);

CREATE INDEX IF NOT EXISTS idx_docrag_points_payload ON docrag_points USING GIN (payload);
`

// Store is a PostgreSQL-backed driven.PointStore.
type Store struct {
	db *sql.DB
}

// NewStore connects to dsn and creates the schema if needed.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: postgres dsn is required", domain.ErrInvalidInput)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", domain.ErrVectorStoreUnavailable, err)
	}

	s, err := NewStoreWithDB(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewStoreWithDB uses an existing connection pool and creates the schema.
func NewStoreWithDB(ctx context.Context, db *sql.DB) (*Store, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetCollection describes a collection or returns domain.ErrNotFound.
func (s *Store) GetCollection(ctx context.Context, name string) (*domain.CollectionInfo, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT c.vector_size, c.distance,
			(SELECT COUNT(*) FROM docrag_points p WHERE p.collection = c.name)
		FROM docrag_collections c WHERE c.name = $1
	`, name)

	var info domain.CollectionInfo
	var distance string
	if err := row.Scan(&info.VectorSize, &distance, &info.PointsCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning collection: %w", err)
	}
	info.Distance = domain.Distance(distance)
	return &info, nil
}

// CreateCollection creates a collection. Recreating an existing one is a no-op.
func (s *Store) CreateCollection(ctx context.Context, name string, vectorSize int, distance domain.Distance) error {
	if vectorSize <= 0 {
		return fmt.Errorf("%w: vector size must be positive", domain.ErrInvalidInput)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO docrag_collections (name, vector_size, distance)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO NOTHING
	`, name, vectorSize, string(distance))
	if err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}
	return nil
}

// DeleteCollection removes a collection and, by cascade, its points.
func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM docrag_collections WHERE name = $1", name); err != nil {
		return fmt.Errorf("deleting collection: %w", err)
	}
	return nil
}

// Upsert writes all points in one transaction.
func (s *Store) Upsert(ctx context.Context, name string, points []domain.IndexedPoint) error {
	info, err := s.GetCollection(ctx, name)
	if err != nil {
		return fmt.Errorf("collection %s: %w", name, err)
	}
	for _, p := range points {
		if len(p.Vector) != info.VectorSize {
			return fmt.Errorf("%w: point %s has %d dimensions, collection has %d",
				domain.ErrDimensionMismatch, p.ID, len(p.Vector), info.VectorSize)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO docrag_points (collection, id, embedding, payload)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (collection, id) DO UPDATE SET
			embedding = EXCLUDED.embedding,
			payload = EXCLUDED.payload
	`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		payload, err := json.Marshal(p.Payload)
		if err != nil {
			return fmt.Errorf("marshalling payload for %s: %w", p.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, name, p.ID, pgvector.NewVector(p.Vector), string(payload)); err != nil {
			return fmt.Errorf("upserting point %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing upsert: %w", err)
	}
	return nil
}

// Search orders by the pgvector cosine distance operator.
func (s *Store) Search(
	ctx context.Context,
	name string,
	vector []float32,
	limit int,
	filter domain.SearchFilter,
) ([]domain.ScoredPoint, error) {
	if limit <= 0 {
		return []domain.ScoredPoint{}, nil
	}

	query, args := buildSearchQuery(name, pgvector.NewVector(vector), limit, filter)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying points: %w", err)
	}
	defer rows.Close()

	hits := []domain.ScoredPoint{}
	for rows.Next() {
		var hit domain.ScoredPoint
		var payloadJSON []byte
		if err := rows.Scan(&hit.ID, &payloadJSON, &hit.Score); err != nil {
			return nil, fmt.Errorf("scanning point: %w", err)
		}
		if err := json.Unmarshal(payloadJSON, &hit.Payload); err != nil {
			return nil, fmt.Errorf("unmarshalling payload for %s: %w", hit.ID, err)
		}
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating points: %w", err)
	}
	return hits, nil
}

// buildSearchQuery returns the nearest-neighbour query and its arguments.
// Filter conditions become one JSONB containment test so the GIN index on
// payload serves them.
func buildSearchQuery(name string, vector pgvector.Vector, limit int, filter domain.SearchFilter) (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT id, payload, 1 - (embedding <=> $1) AS score FROM docrag_points WHERE collection = $2")
	args := []any{vector, name}

	if conds := filter.Conditions(); len(conds) > 0 {
		// Marshalling a map[string]string cannot fail; keys come out sorted.
		doc, _ := json.Marshal(conds)
		args = append(args, string(doc))
		fmt.Fprintf(&b, " AND payload @> $%d::jsonb", len(args))
	}

	args = append(args, limit)
	fmt.Fprintf(&b, " ORDER BY embedding <=> $1 LIMIT $%d", len(args))
	return b.String(), args
}
