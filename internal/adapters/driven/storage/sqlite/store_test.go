package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docrag/internal/core/domain"
)

// setupTestStore creates a SQLite store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func seedCollection(t *testing.T, store *Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.CreateCollection(ctx, "docs", 3, domain.DistanceCosine))
	require.NoError(t, store.Upsert(ctx, "docs", []domain.IndexedPoint{
		{ID: "p1", Vector: []float32{1, 0, 0}, Payload: map[string]any{"text": "uno", "region": "Atacama", "page": 1}},
		{ID: "p2", Vector: []float32{0.9, 0.1, 0}, Payload: map[string]any{"text": "dos", "region": "Coquimbo", "comuna": "Ovalle"}},
		{ID: "p3", Vector: []float32{0, 0, 1}, Payload: map[string]any{"text": "tres", "region": "Coquimbo"}},
	}))
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "vector_db")

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, DatabaseFile), store.Path())
	assert.FileExists(t, store.Path())
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.CreateCollection(ctx, "docs", 2, domain.DistanceCosine))
	require.NoError(t, store.Close())

	store, err = NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	info, err := store.GetCollection(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, 2, info.VectorSize)
}

func TestStore_CollectionLifecycle(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.GetCollection(ctx, "docs")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	seedCollection(t, store)

	info, err := store.GetCollection(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, &domain.CollectionInfo{VectorSize: 3, Distance: domain.DistanceCosine, PointsCount: 3}, info)

	// Creating again keeps the original size.
	require.NoError(t, store.CreateCollection(ctx, "docs", 8, domain.DistanceCosine))
	info, err = store.GetCollection(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, 3, info.VectorSize)

	require.NoError(t, store.DeleteCollection(ctx, "docs"))
	require.NoError(t, store.DeleteCollection(ctx, "docs"))
	_, err = store.GetCollection(ctx, "docs")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_UpsertOverwrites(t *testing.T) {
	store := setupTestStore(t)
	seedCollection(t, store)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "docs", []domain.IndexedPoint{
		{ID: "p1", Vector: []float32{0, 1, 0}, Payload: map[string]any{"text": "nuevo"}},
	}))

	info, err := store.GetCollection(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, 3, info.PointsCount)

	hits, err := store.Search(ctx, "docs", []float32{0, 1, 0}, 1, domain.SearchFilter{})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "p1", hits[0].ID)
	assert.Equal(t, "nuevo", hits[0].Payload["text"])
}

func TestStore_UpsertRejectsWrongDimension(t *testing.T) {
	store := setupTestStore(t)
	seedCollection(t, store)

	err := store.Upsert(context.Background(), "docs", []domain.IndexedPoint{
		{ID: "p4", Vector: []float32{1, 0}},
	})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestStore_UpsertMissingCollection(t *testing.T) {
	store := setupTestStore(t)

	err := store.Upsert(context.Background(), "nope", []domain.IndexedPoint{{ID: "x", Vector: []float32{1}}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Search(t *testing.T) {
	store := setupTestStore(t)
	seedCollection(t, store)
	ctx := context.Background()

	hits, err := store.Search(ctx, "docs", []float32{1, 0, 0}, 2, domain.SearchFilter{})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "p1", hits[0].ID)
	assert.Equal(t, "p2", hits[1].ID)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
	assert.Equal(t, float64(1), hits[0].Payload["page"])

	hits, err = store.Search(ctx, "docs", []float32{1, 0, 0}, 5, domain.SearchFilter{Region: "Coquimbo"})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "p2", hits[0].ID)

	hits, err = store.Search(ctx, "docs", []float32{1, 0, 0}, 5, domain.SearchFilter{Region: "Coquimbo", Comuna: "Ovalle"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "p2", hits[0].ID)

	hits, err = store.Search(ctx, "docs", []float32{1, 0, 0}, 0, domain.SearchFilter{})
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestBuildSearchQuery(t *testing.T) {
	query, args := buildSearchQuery("docs", domain.SearchFilter{Region: "R", Comuna: "C"})

	assert.Equal(t,
		"SELECT id, vector, payload FROM points WHERE collection = ? AND json_extract(payload, ?) = ? AND json_extract(payload, ?) = ?",
		query)
	assert.Equal(t, []any{"docs", "$.comuna", "C", "$.region", "R"}, args)
}

func TestFloat32Conversion(t *testing.T) {
	in := []float32{0.5, -1.25, 3}
	assert.Equal(t, in, bytesToFloat32Slice(float32SliceToBytes(in)))
	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}
