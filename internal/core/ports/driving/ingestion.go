package driving

import (
	"context"

	"github.com/custodia-labs/docrag/internal/core/domain"
)

// IngestionService runs the normalise, chunk, embed and store pipeline.
type IngestionService interface {
	// Ingest processes every new file in the unprocessed directory.
	// Returns false when there was nothing to ingest or the store
	// rejected the batch.
	Ingest(ctx context.Context) bool

	// Run is Ingest with the outcome as an error, for schedulers.
	Run(ctx context.Context) error

	// Stats returns the vector store collection statistics.
	Stats(ctx context.Context) domain.CollectionStats

	// Reset deletes the collection.
	Reset(ctx context.Context) bool
}
