package mcp

import (
	"context"

	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driving"
)

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	answer       domain.StructuredAnswer
	targetAnswer domain.StructuredAnswer

	lastQuestion string
	lastOpts     driving.QueryOptions
	targetCalls  int
}

func (m *mockQueryService) Query(_ context.Context, question string, opts driving.QueryOptions) domain.StructuredAnswer {
	m.lastQuestion = question
	m.lastOpts = opts
	return m.answer
}

func (m *mockQueryService) RunTargetQuestion(_ context.Context) domain.StructuredAnswer {
	m.targetCalls++
	return m.targetAnswer
}

// mockIngestionService is a mock implementation of driving.IngestionService.
type mockIngestionService struct {
	ingested    bool
	stats       domain.CollectionStats
	ingestCalls int
}

func (m *mockIngestionService) Ingest(_ context.Context) bool {
	m.ingestCalls++
	return m.ingested
}

func (m *mockIngestionService) Run(_ context.Context) error {
	m.ingestCalls++
	return nil
}

func (m *mockIngestionService) Stats(_ context.Context) domain.CollectionStats {
	return m.stats
}

func (m *mockIngestionService) Reset(_ context.Context) bool {
	return true
}
