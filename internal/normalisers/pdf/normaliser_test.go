package pdf

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docrag/internal/core/domain"
)

// mockReader is a test double for PageReader.
type mockReader struct {
	pages []string
	errs  map[int]error
	panic bool
}

func (m *mockReader) NumPage() int {
	if m.panic {
		panic("malformed xref")
	}
	return len(m.pages)
}

func (m *mockReader) PageText(i int) (string, error) {
	if err := m.errs[i]; err != nil {
		return "", err
	}
	return m.pages[i-1], nil
}

func opener(r PageReader, err error) OpenFunc {
	return func(_ []byte) (PageReader, error) {
		return r, err
	}
}

func TestNew(t *testing.T) {
	normaliser := New()
	require.NotNil(t, normaliser)
	assert.IsType(t, &Normaliser{}, normaliser)
	assert.Equal(t, []string{".pdf"}, normaliser.SupportedExtensions())
	assert.Equal(t, 50, normaliser.Priority())
}

func TestNormalise_NilDocument(t *testing.T) {
	docs, err := New().Normalise(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, docs)
}

func TestNormalise_OnePerPage(t *testing.T) {
	r := &mockReader{pages: []string{"  página uno ", "", "página tres"}}
	n := NewWithOpener(opener(r, nil))

	docs, err := n.Normalise(context.Background(), &domain.RawDocument{Filename: "a.pdf"})
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "página uno", docs[0].Content)
	assert.Equal(t, 1, docs[0].Metadata[domain.MetaPage])
	assert.Equal(t, "página tres", docs[1].Content)
	assert.Equal(t, 3, docs[1].Metadata[domain.MetaPage])
}

func TestNormalise_PageErrorSkipsPage(t *testing.T) {
	r := &mockReader{
		pages: []string{"uno", "dos"},
		errs:  map[int]error{1: errors.New("bad font")},
	}
	n := NewWithOpener(opener(r, nil))

	docs, err := n.Normalise(context.Background(), &domain.RawDocument{Filename: "a.pdf"})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, 2, docs[0].Metadata[domain.MetaPage])
}

func TestNormalise_OpenError(t *testing.T) {
	n := NewWithOpener(opener(nil, errors.New("not a PDF file")))

	docs, err := n.Normalise(context.Background(), &domain.RawDocument{Filename: "bad.pdf"})

	assert.ErrorIs(t, err, ErrUnreadablePDF)
	assert.Contains(t, err.Error(), "bad.pdf")
	assert.Nil(t, docs)
}

func TestNormalise_RecoversParserPanic(t *testing.T) {
	n := NewWithOpener(opener(&mockReader{panic: true}, nil))

	docs, err := n.Normalise(context.Background(), &domain.RawDocument{Filename: "broken.pdf"})

	assert.ErrorIs(t, err, ErrUnreadablePDF)
	assert.Nil(t, docs)
}

func TestNormalise_RealParserRejectsGarbage(t *testing.T) {
	docs, err := New().Normalise(context.Background(), &domain.RawDocument{
		Filename: "garbage.pdf",
		Content:  []byte("this is not a pdf"),
	})

	assert.ErrorIs(t, err, ErrUnreadablePDF)
	assert.Nil(t, docs)
}

func TestNormalise_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n := NewWithOpener(opener(&mockReader{pages: []string{"uno"}}, nil))

	_, err := n.Normalise(ctx, &domain.RawDocument{Filename: "a.pdf"})

	assert.ErrorIs(t, err, context.Canceled)
}
