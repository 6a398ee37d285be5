package markdown

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docrag/internal/core/domain"
)

func TestNew(t *testing.T) {
	normaliser := New()
	require.NotNil(t, normaliser)
	assert.IsType(t, &Normaliser{}, normaliser)
}

func TestSupportedExtensions(t *testing.T) {
	exts := New().SupportedExtensions()

	assert.Contains(t, exts, ".md")
	assert.Contains(t, exts, ".markdown")
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 50, New().Priority())
}

func TestNormalise_NilDocument(t *testing.T) {
	docs, err := New().Normalise(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, docs)
}

func TestNormalise_StructuralText(t *testing.T) {
	raw := &domain.RawDocument{
		Filename: "informe.md",
		Content: []byte("# Chinchilla\n\nEspecie **amenazada** en [Coquimbo](http://x).\n\n" +
			"- punto uno\n- punto dos\n\n```\ncodigo()\n```\n\n<div>oculto</div>\n"),
	}

	docs, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	content := docs[0].Content
	assert.Contains(t, content, "Chinchilla")
	assert.Contains(t, content, "Especie amenazada en Coquimbo.")
	assert.Contains(t, content, "punto uno\npunto dos")
	assert.Contains(t, content, "codigo()")
	assert.NotContains(t, content, "oculto")
	assert.NotContains(t, content, "**")
	assert.NotContains(t, content, "http://x")

	// Backfill is the loader's job.
	assert.False(t, docs[0].Metadata.Has(domain.MetaPage))
}

func TestNormalise_FallbackWhenStructuralEmpty(t *testing.T) {
	raw := &domain.RawDocument{
		Filename: "vacio.md",
		Content:  []byte("<!-- comentario -->\n"),
	}

	docs, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)

	// The fallback keeps the raw text as page 1.
	require.Len(t, docs, 1)
	assert.Equal(t, "<!-- comentario -->", docs[0].Content)
	assert.Equal(t, 1, docs[0].Metadata[domain.MetaPage])
}

func TestNormalise_WhitespaceOnly(t *testing.T) {
	raw := &domain.RawDocument{Filename: "blank.md", Content: []byte("  \n\n ")}

	docs, err := New().Normalise(context.Background(), raw)

	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestSplitPages(t *testing.T) {
	docs := SplitPages("intro\n---Page 2---\nbody2\n---Page 3---\nbody3", "doc.md")

	require.Len(t, docs, 3)

	wantContent := []string{"intro", "body2", "body3"}
	wantPages := []int{1, 2, 3}
	for i, d := range docs {
		assert.Equal(t, wantContent[i], d.Content)
		assert.Equal(t, wantPages[i], d.Metadata[domain.MetaPage])
		assert.Equal(t, i, d.Metadata[domain.MetaChunkIndex])
		assert.Equal(t, "doc.md", d.Metadata[domain.MetaSource])
	}
}

func TestSplitPages_NoLeadingText(t *testing.T) {
	docs := SplitPages("---Page 5---\ncinco\n---Page 6---\n\n---Page 7---\nsiete", "doc.md")

	require.Len(t, docs, 2)
	assert.Equal(t, "cinco", docs[0].Content)
	assert.Equal(t, 5, docs[0].Metadata[domain.MetaPage])
	assert.Equal(t, "siete", docs[1].Content)
	assert.Equal(t, 7, docs[1].Metadata[domain.MetaPage])
	assert.Equal(t, 1, docs[1].Metadata[domain.MetaChunkIndex])
}

func TestSplitPages_NoMarkers(t *testing.T) {
	docs := SplitPages("solo texto", "doc.md")

	require.Len(t, docs, 1)
	assert.Equal(t, 1, docs[0].Metadata[domain.MetaPage])
}
