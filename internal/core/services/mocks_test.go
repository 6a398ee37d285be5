package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockRegistry implements driven.NormaliserRegistry for testing.
// Files with ".md" yield one document per line; content "fail" errors.
type mockRegistry struct {
	exts []string
}

func newMockRegistry() *mockRegistry {
	return &mockRegistry{exts: []string{".md", ".pdf"}}
}

func (m *mockRegistry) Register(_ driven.Normaliser) {}

func (m *mockRegistry) Supports(ext string) bool {
	for _, e := range m.exts {
		if e == ext {
			return true
		}
	}
	return false
}

func (m *mockRegistry) SupportedExtensions() []string {
	return m.exts
}

func (m *mockRegistry) Normalise(_ context.Context, raw *domain.RawDocument) ([]domain.Document, error) {
	text := string(raw.Content)
	if text == "fail" {
		return nil, errors.New("corrupt file")
	}
	var docs []domain.Document
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		docs = append(docs, domain.Document{Content: line, Metadata: domain.Metadata{}})
	}
	return docs, nil
}

// mockSource implements DocumentSource for testing.
type mockSource struct {
	docs []domain.Document
	err  error
}

func (m *mockSource) LoadDocuments(_ context.Context) ([]domain.Document, error) {
	return m.docs, m.err
}

// mockChunker implements driven.Chunker with one chunk per document.
type mockChunker struct{}

func (mockChunker) Split(_ context.Context, docs []domain.Document) []domain.Chunk {
	chunks := make([]domain.Chunk, 0, len(docs))
	for _, d := range docs {
		chunks = append(chunks, domain.Chunk{Content: d.Content, Metadata: d.Metadata.Clone()})
	}
	return chunks
}

// mockVectorStore implements driven.VectorStore for testing.
type mockVectorStore struct {
	mu         sync.Mutex
	results    []domain.QueryResult
	searchErr  error
	addResult  bool
	added      []domain.Chunk
	lastK      int
	lastFilter domain.SearchFilter
	searches   int
	deleted    bool
	stats      domain.CollectionStats
	started    chan struct{}
	block      chan struct{}
}

func (m *mockVectorStore) EnsureOrCreateCollection(_ context.Context, _ int) error {
	return nil
}

func (m *mockVectorStore) AddDocuments(_ context.Context, chunks []domain.Chunk) bool {
	if m.started != nil {
		m.started <- struct{}{}
	}
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.added = append(m.added, chunks...)
	return m.addResult
}

func (m *mockVectorStore) SimilaritySearch(_ context.Context, _ string, k int, filter domain.SearchFilter) ([]domain.QueryResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches++
	m.lastK = k
	m.lastFilter = filter
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k < len(m.results) {
		return m.results[:k], nil
	}
	return m.results, nil
}

func (m *mockVectorStore) GetStats(_ context.Context) domain.CollectionStats {
	return m.stats
}

func (m *mockVectorStore) DeleteCollection(_ context.Context) bool {
	m.deleted = true
	return true
}

func (m *mockVectorStore) Close() error {
	return nil
}

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	variant     domain.LLMVariant
	response    string
	err         error
	calls       int
	lastPrompt  string
	lastMsgs    []driven.ChatMessage
	lastChatOpt driven.ChatOptions
}

func (m *mockLLMService) Variant() domain.LLMVariant {
	if m.variant == "" {
		return domain.LLMVariantCompletion
	}
	return m.variant
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.calls++
	m.lastPrompt = prompt
	return m.response, m.err
}

func (m *mockLLMService) Chat(_ context.Context, msgs []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.calls++
	m.lastMsgs = msgs
	m.lastChatOpt = opts
	return m.response, m.err
}

func (m *mockLLMService) ModelName() string {
	return "mock-llm"
}

func (m *mockLLMService) Ping(_ context.Context) error {
	return nil
}

func (m *mockLLMService) Close() error {
	return nil
}

func sampleResults() []domain.QueryResult {
	return []domain.QueryResult{
		{Text: "La chinchilla habita en Coquimbo.", Metadata: map[string]any{
			domain.MetaSource: "informe.pdf", domain.MetaPage: 4, domain.MetaScore: 0.91,
		}},
		{Text: "Proyecto minero con monitoreo.", Metadata: map[string]any{
			domain.MetaSource: "anexo.md", domain.MetaPage: float64(2), domain.MetaScore: 0.84,
		}},
	}
}
