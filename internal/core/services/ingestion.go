package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driven"
	"github.com/custodia-labs/docrag/internal/core/ports/driving"
	"github.com/custodia-labs/docrag/internal/logger"
)

// Ensure IngestionService implements the interface.
var _ driving.IngestionService = (*IngestionService)(nil)

// DocumentSource yields the documents of one ingestion batch.
type DocumentSource interface {
	LoadDocuments(ctx context.Context) ([]domain.Document, error)
}

// IngestionService runs the load, chunk and store pipeline.
// Runs are serialised; a Run issued while another is active fails fast.
type IngestionService struct {
	source  DocumentSource
	chunker driven.Chunker
	store   driven.VectorStore
	mu      sync.Mutex
}

// NewIngestionService creates an ingestion service.
func NewIngestionService(
	source DocumentSource,
	chunker driven.Chunker,
	store driven.VectorStore,
) *IngestionService {
	return &IngestionService{
		source:  source,
		chunker: chunker,
		store:   store,
	}
}

// Ingest processes every new file and reports whether a batch was stored.
func (s *IngestionService) Ingest(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.ingest(ctx)
	switch {
	case err == nil:
		return true
	case errors.Is(err, domain.ErrNothingToIngest):
		logger.Warn("no documents to ingest")
	default:
		logger.Error("ingestion failed: %v", err)
	}
	return false
}

// Run ingests once and returns the outcome as an error.
// It returns domain.ErrIngestionInProgress when another run holds the lock.
func (s *IngestionService) Run(ctx context.Context) error {
	if !s.mu.TryLock() {
		return domain.ErrIngestionInProgress
	}
	defer s.mu.Unlock()

	return s.ingest(ctx)
}

func (s *IngestionService) ingest(ctx context.Context) error {
	if s.source == nil || s.chunker == nil || s.store == nil {
		return fmt.Errorf("%w: ingestion service not configured", domain.ErrIngestionFailed)
	}

	logger.Section("Ingestion")

	docs, err := s.source.LoadDocuments(ctx)
	if err != nil {
		return fmt.Errorf("%w: loading documents: %w", domain.ErrIngestionFailed, err)
	}
	logger.Debug("loaded %d documents", len(docs))

	chunks := s.chunker.Split(ctx, docs)
	if len(chunks) == 0 {
		return domain.ErrNothingToIngest
	}
	logger.Info("storing %d chunks from %d documents", len(chunks), len(docs))

	if !s.store.AddDocuments(ctx, chunks) {
		return fmt.Errorf("%w: vector store rejected %d chunks", domain.ErrIngestionFailed, len(chunks))
	}
	return nil
}

// Stats returns the collection statistics.
func (s *IngestionService) Stats(ctx context.Context) domain.CollectionStats {
	if s.store == nil {
		return domain.CollectionStats{Error: domain.ErrVectorStoreUnavailable.Error()}
	}
	return s.store.GetStats(ctx)
}

// Reset deletes the collection and everything in it.
func (s *IngestionService) Reset(ctx context.Context) bool {
	if s.store == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.DeleteCollection(ctx)
}
