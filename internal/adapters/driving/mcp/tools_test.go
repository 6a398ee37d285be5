package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driving"
)

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("forwards question and options", func(t *testing.T) {
		query := &mockQueryService{answer: domain.StructuredAnswer{
			Respuesta:           "En el proyecto Los Pelambres.",
			DocumentoReferencia: "informe.pdf",
			PaginaReferencia:    "4",
		}}
		server, err := NewServer(&Ports{Query: query})
		require.NoError(t, err)

		_, out, err := server.handleAsk(ctx, nil, AskInput{Question: "  ¿Dónde?  ", Region: " Coquimbo ", K: 5})

		require.NoError(t, err)
		assert.Equal(t, "informe.pdf", out.DocumentoReferencia)
		assert.Equal(t, "¿Dónde?", query.lastQuestion)
		assert.Equal(t, driving.QueryOptions{Region: "Coquimbo", K: 5}, query.lastOpts)
	})

	t.Run("empty question runs the target question", func(t *testing.T) {
		query := &mockQueryService{targetAnswer: domain.NoDocumentsAnswer()}
		server, err := NewServer(&Ports{Query: query})
		require.NoError(t, err)

		_, out, err := server.handleAsk(ctx, nil, AskInput{})

		require.NoError(t, err)
		assert.Equal(t, 1, query.targetCalls)
		assert.Equal(t, domain.NoDocumentsAnswer(), out)
	})

	t.Run("error answers are not tool errors", func(t *testing.T) {
		query := &mockQueryService{answer: domain.GenerationErrorAnswer()}
		server, err := NewServer(&Ports{Query: query})
		require.NoError(t, err)

		_, out, err := server.handleAsk(ctx, nil, AskInput{Question: "q"})

		require.NoError(t, err)
		assert.Equal(t, domain.GenerationErrorMessage, out.Respuesta)
	})
}

func TestServer_handleStats(t *testing.T) {
	ctx := context.Background()

	t.Run("returns stats", func(t *testing.T) {
		ingestion := &mockIngestionService{stats: domain.CollectionStats{
			Exists:      true,
			PointsCount: 12,
			VectorSize:  384,
			Distance:    domain.DistanceCosine,
		}}
		server, err := NewServer(&Ports{Query: &mockQueryService{}, Ingestion: ingestion})
		require.NoError(t, err)

		_, out, err := server.handleStats(ctx, nil, StatsInput{})

		require.NoError(t, err)
		assert.Equal(t, 12, out.PointsCount)
		assert.Equal(t, 384, out.VectorSize)
	})

	t.Run("without ingestion service", func(t *testing.T) {
		server, err := NewServer(&Ports{Query: &mockQueryService{}})
		require.NoError(t, err)

		_, _, err = server.handleStats(ctx, nil, StatsInput{})

		assert.ErrorIs(t, err, ErrIngestionUnavailable)
	})
}

func TestServer_handleIngest(t *testing.T) {
	ctx := context.Background()

	ingestion := &mockIngestionService{ingested: true, stats: domain.CollectionStats{Exists: true, PointsCount: 3}}
	server, err := NewServer(&Ports{Query: &mockQueryService{}, Ingestion: ingestion})
	require.NoError(t, err)

	_, out, err := server.handleIngest(ctx, nil, IngestInput{})

	require.NoError(t, err)
	assert.True(t, out.Ingested)
	assert.Equal(t, 3, out.Stats.PointsCount)
	assert.Equal(t, 1, ingestion.ingestCalls)

	server, err = NewServer(&Ports{Query: &mockQueryService{}})
	require.NoError(t, err)
	_, _, err = server.handleIngest(ctx, nil, IngestInput{})
	assert.ErrorIs(t, err, ErrIngestionUnavailable)
}
