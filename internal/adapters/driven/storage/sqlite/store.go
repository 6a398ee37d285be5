package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/docrag/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driven"
)

// DatabaseFile is the file created inside the data directory.
const DatabaseFile = "points.db"

// Ensure Store implements the interface.
var _ driven.PointStore = (*Store)(nil)

// Store is a SQLite-backed driven.PointStore.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens or creates the point database in dataDir.
// If dataDir is empty, defaults to data/vector_db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		dataDir = domain.DefaultVectorDBPath
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	// WAL mode for concurrency; foreign keys on every pooled connection
	// so deleting a collection cascades to its points.
	db, err := sql.Open("sqlite", dbPath+
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_points.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// GetCollection describes a collection or returns domain.ErrNotFound.
func (s *Store) GetCollection(ctx context.Context, name string) (*domain.CollectionInfo, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT c.vector_size, c.distance,
			(SELECT COUNT(*) FROM points p WHERE p.collection = c.name)
		FROM collections c WHERE c.name = ?
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
		INSERT INTO collections (name, vector_size, distance)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO NOTHING
	`, name, vectorSize, string(distance))
	if err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}
	return nil
}

// DeleteCollection removes a collection and, by cascade, its points.
func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM collections WHERE name = ?", name); err != nil {
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
		INSERT INTO points (collection, id, vector, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET
			vector = excluded.vector,
			payload = excluded.payload
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
		if _, err := stmt.ExecContext(ctx, name, p.ID, float32SliceToBytes(p.Vector), string(payload)); err != nil {
			return fmt.Errorf("upserting point %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing upsert: %w", err)
	}
	return nil
}

// Search scores every point that passes the payload filter.
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
	if _, err := s.GetCollection(ctx, name); err != nil {
		return nil, fmt.Errorf("collection %s: %w", name, err)
	}

	query, args := buildSearchQuery(name, filter)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying points: %w", err)
	}
	defer rows.Close()

	var hits []domain.ScoredPoint
	for rows.Next() {
		var id, payloadJSON string
		var blob []byte
		if err := rows.Scan(&id, &blob, &payloadJSON); err != nil {
			return nil, fmt.Errorf("scanning point: %w", err)
		}
		var payload map[string]any
		if err := json.Unmarshal([]byte(payloadJSON), &payload); err != nil {
			return nil, fmt.Errorf("unmarshalling payload for %s: %w", id, err)
		}
		hits = append(hits, domain.ScoredPoint{
			ID:      id,
			Score:   domain.CosineSimilarity(vector, bytesToFloat32Slice(blob)),
			Payload: payload,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating points: %w", err)
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
	if hits == nil {
		hits = []domain.ScoredPoint{}
	}
	return hits, nil
}

// buildSearchQuery returns the point query for a collection and filter.
// Conditions are emitted in key order so the SQL text is stable.
func buildSearchQuery(name string, filter domain.SearchFilter) (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT id, vector, payload FROM points WHERE collection = ?")
	args := []any{name}

	conds := filter.Conditions()
	keys := make([]string, 0, len(conds))
	for k := range conds {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		b.WriteString(" AND json_extract(payload, ?) = ?")
		args = append(args, "$."+k, conds[k])
	}
	return b.String(), args
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
