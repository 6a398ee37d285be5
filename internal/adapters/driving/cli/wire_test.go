package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driving"
)

// fakeOllama serves the embed and generate endpoints the pipeline calls.
func fakeOllama(t *testing.T, answer string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/embed":
			var req struct {
				Input []string `json:"input"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			out := struct {
				Embeddings [][]float32 `json:"embeddings"`
			}{}
			for _, text := range req.Input {
				out.Embeddings = append(out.Embeddings, []float32{1, float32(len(text)%5 + 1), 0.5})
			}
			_ = json.NewEncoder(w).Encode(out)
		case "/api/generate":
			_ = json.NewEncoder(w).Encode(map[string]any{"response": answer, "done": true})
		case "/api/tags":
			_, _ = w.Write([]byte(`{"models":[]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testSettings(t *testing.T, ollamaURL string) domain.Settings {
	t.Helper()
	dir := t.TempDir()

	s := domain.DefaultSettings()
	s.Docs.Dir = filepath.Join(dir, "docs")
	s.Embedding.BaseURL = ollamaURL
	s.Embedding.CacheSize = 0
	s.LLM.BaseURL = ollamaURL
	s.VectorStore.Backend = domain.VectorBackendMemory
	s.Lexicon.Path = filepath.Join(dir, "missing.json")
	return s
}

func TestWiring_IngestThenQuery(t *testing.T) {
	const answer = `Respuesta: {"respuesta": "En los Andes.", "documento_referencia": "chinchilla.md", "pagina_referencia": "N/A"}`
	srv := fakeOllama(t, answer)
	settings := testSettings(t, srv.URL)

	w := newWiring(settings)
	t.Cleanup(func() { _ = w.Close() })
	ctx := context.Background()

	ingestion, err := w.ingestionService(ctx)
	require.NoError(t, err)

	// Nothing dropped in yet.
	assert.False(t, ingestion.Ingest(ctx))

	doc := "# Chinchilla\n\nLa chinchilla vive en los Andes.\n"
	require.NoError(t, os.WriteFile(filepath.Join(settings.Docs.UnprocessedDir(), "chinchilla.md"), []byte(doc), 0644))

	require.True(t, ingestion.Ingest(ctx))
	stats := ingestion.Stats(ctx)
	assert.True(t, stats.Exists)
	assert.Positive(t, stats.PointsCount)
	assert.FileExists(t, filepath.Join(settings.Docs.ProcessedDir(), "chinchilla.md"))

	query, err := w.queryService(ctx)
	require.NoError(t, err)

	got := query.Query(ctx, "¿Dónde vive la chinchilla?", driving.QueryOptions{})
	assert.Equal(t, domain.StructuredAnswer{
		Respuesta:           "En los Andes.",
		DocumentoReferencia: "chinchilla.md",
		PaginaReferencia:    "N/A",
	}, got)
}

func TestWiring_ServicesAreShared(t *testing.T) {
	srv := fakeOllama(t, "{}")
	w := newWiring(testSettings(t, srv.URL))
	t.Cleanup(func() { _ = w.Close() })
	ctx := context.Background()

	first, err := w.ingestionService(ctx)
	require.NoError(t, err)
	second, err := w.ingestionService(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second)

	_, err = w.queryService(ctx)
	require.NoError(t, err)
	assert.NotNil(t, w.llm)

	require.NoError(t, w.Close())
	assert.Nil(t, w.store)
	assert.Nil(t, w.ingestion)
}

func TestWiring_UnsupportedBackend(t *testing.T) {
	srv := fakeOllama(t, "{}")
	settings := testSettings(t, srv.URL)
	settings.VectorStore.Backend = "chroma"

	w := newWiring(settings)
	_, err := w.ingestionService(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	assert.Nil(t, w.embedder, "embedder must be released when the store cannot be built")
}

func TestWiring_MissingLLMCredential(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	srv := fakeOllama(t, "{}")
	settings := testSettings(t, srv.URL)
	settings.LLM.Provider = domain.AIProviderGroq
	settings.LLM.APIKey = ""
	settings.LLM.APIKeyEnv = "DOCRAG_TEST_UNSET_KEY"

	w := newWiring(settings)
	t.Cleanup(func() { _ = w.Close() })

	_, err := w.queryService(context.Background())
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}
