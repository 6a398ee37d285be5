package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docrag/internal/core/domain"
)

func setupLoader(t *testing.T, files map[string]string) *DocumentLoader {
	t.Helper()
	docs := domain.DocsSettings{Dir: t.TempDir()}
	lexicon := domain.NewRegionLexicon([]string{"Coquimbo", "Atacama"})

	loader, err := NewDocumentLoader(docs, newMockRegistry(), lexicon)
	require.NoError(t, err)

	for name, content := range files {
		path := filepath.Join(loader.UnprocessedDir(), name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return loader
}

func TestNewDocumentLoader_CreatesDirectories(t *testing.T) {
	loader := setupLoader(t, nil)

	assert.DirExists(t, loader.UnprocessedDir())
	assert.DirExists(t, loader.ProcessedDir())
	assert.False(t, loader.HasUnprocessedDocuments())
}

func TestNewDocumentLoader_RequiresRegistry(t *testing.T) {
	_, err := NewDocumentLoader(domain.DocsSettings{Dir: t.TempDir()}, nil, domain.RegionLexicon{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoadDocuments_EmptyDirectory(t *testing.T) {
	loader := setupLoader(t, nil)

	docs, err := loader.LoadDocuments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)

	moved, err := os.ReadDir(loader.ProcessedDir())
	require.NoError(t, err)
	assert.Empty(t, moved)
}

func TestLoadDocuments_BackfillsAndMoves(t *testing.T) {
	loader := setupLoader(t, map[string]string{
		"notes.md": "Informe de COQUIMBO\nsin region",
	})
	require.True(t, loader.HasUnprocessedDocuments())

	docs, err := loader.LoadDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "notes.md", docs[0].Metadata[domain.MetaSource])
	assert.Equal(t, 0, docs[0].Metadata[domain.MetaChunkIndex])
	assert.Equal(t, 0, docs[0].Metadata[domain.MetaPage])
	assert.Equal(t, "Coquimbo", docs[0].Metadata[domain.MetaRegion])

	assert.Equal(t, 1, docs[1].Metadata[domain.MetaChunkIndex])
	assert.Equal(t, 1, docs[1].Metadata[domain.MetaPage])
	assert.Equal(t, domain.UnknownRegion, docs[1].Metadata[domain.MetaRegion])

	assert.FileExists(t, filepath.Join(loader.ProcessedDir(), "notes.md"))
	assert.NoFileExists(t, filepath.Join(loader.UnprocessedDir(), "notes.md"))
	assert.False(t, loader.HasUnprocessedDocuments())
}

func TestLoadDocuments_SkipsUnsupportedAndFailures(t *testing.T) {
	loader := setupLoader(t, map[string]string{
		"a.md":     "Atacama",
		"b.txt":    "ignored",
		"c.md":     "fail",
		"empty.md": "",
	})

	docs, err := loader.LoadDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Atacama", docs[0].Metadata[domain.MetaRegion])

	assert.FileExists(t, filepath.Join(loader.UnprocessedDir(), "b.txt"))
	assert.FileExists(t, filepath.Join(loader.UnprocessedDir(), "c.md"))
	assert.FileExists(t, filepath.Join(loader.ProcessedDir(), "a.md"))
	// Zero documents still counts as loaded.
	assert.FileExists(t, filepath.Join(loader.ProcessedDir(), "empty.md"))
}

func TestLoadDocuments_MoveFailureDoesNotAbortBatch(t *testing.T) {
	loader := setupLoader(t, map[string]string{
		"a.md": "Atacama",
		"b.md": "Coquimbo",
	})
	// A non-empty directory named a.md in processed/ blocks that rename.
	blocker := filepath.Join(loader.ProcessedDir(), "a.md")
	require.NoError(t, os.MkdirAll(blocker, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(blocker, "x"), []byte("x"), 0644))

	docs, err := loader.LoadDocuments(context.Background())
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	assert.FileExists(t, filepath.Join(loader.UnprocessedDir(), "a.md"))
	assert.DirExists(t, blocker)
	assert.FileExists(t, filepath.Join(loader.ProcessedDir(), "b.md"))
	assert.NoFileExists(t, filepath.Join(loader.UnprocessedDir(), "b.md"))
}

func TestLoadDocuments_ProcessedFilesNotReloaded(t *testing.T) {
	loader := setupLoader(t, map[string]string{"a.md": "uno"})
	ctx := context.Background()

	first, err := loader.LoadDocuments(ctx)
	require.NoError(t, err)
	assert.Len(t, first, 1)

	second, err := loader.LoadDocuments(ctx)
	require.NoError(t, err)
	assert.Empty(t, second)
}

func TestBackfill_KeepsExistingMetadata(t *testing.T) {
	docs := []domain.Document{
		{Content: "x", Metadata: domain.Metadata{domain.MetaSource: "orig.pdf", domain.MetaPage: 7}},
		{Content: "y"},
	}

	Backfill(docs, "file.pdf", domain.RegionLexicon{})

	assert.Equal(t, "orig.pdf", docs[0].Metadata[domain.MetaSource])
	assert.Equal(t, 7, docs[0].Metadata[domain.MetaPage])
	assert.Equal(t, 0, docs[0].Metadata[domain.MetaChunkIndex])

	assert.Equal(t, "file.pdf", docs[1].Metadata[domain.MetaSource])
	assert.Equal(t, 1, docs[1].Metadata[domain.MetaPage])
	assert.Equal(t, domain.UnknownRegion, docs[1].Metadata[domain.MetaRegion])
}
