package cli

import (
	"context"
	"sync"

	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driving"
)

type mockIngestionService struct {
	mu sync.Mutex

	ingested bool
	runErr   error
	stats    domain.CollectionStats
	resetOK  bool

	ingestCalls int
	runCalls    int
	resetCalls  int
}

func (m *mockIngestionService) Ingest(_ context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ingestCalls++
	return m.ingested
}

func (m *mockIngestionService) Run(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runCalls++
	return m.runErr
}

func (m *mockIngestionService) Stats(_ context.Context) domain.CollectionStats {
	return m.stats
}

func (m *mockIngestionService) Reset(_ context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetCalls++
	return m.resetOK
}

func (m *mockIngestionService) runs() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runCalls
}

type mockQueryService struct {
	answer       domain.StructuredAnswer
	targetAnswer domain.StructuredAnswer

	lastQuestion string
	lastOpts     driving.QueryOptions
	queryCalls   int
	targetCalls  int
}

func (m *mockQueryService) Query(_ context.Context, question string, opts driving.QueryOptions) domain.StructuredAnswer {
	m.queryCalls++
	m.lastQuestion = question
	m.lastOpts = opts
	return m.answer
}

func (m *mockQueryService) RunTargetQuestion(_ context.Context) domain.StructuredAnswer {
	m.targetCalls++
	return m.targetAnswer
}

type mockValidator struct {
	embeddingErr error
	llmErr       error
}

func (m *mockValidator) ValidateEmbedding(_ context.Context, _ *domain.EmbeddingSettings) error {
	return m.embeddingErr
}

func (m *mockValidator) ValidateLLM(_ context.Context, _ *domain.LLMSettings) error {
	return m.llmErr
}
