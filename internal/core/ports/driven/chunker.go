package driven

import (
	"context"

	"github.com/custodia-labs/docrag/internal/core/domain"
)

// Chunker splits documents into chunks that fit embedding and context limits.
type Chunker interface {
	// Split returns the chunks of all documents in order. Each chunk
	// carries its own copy of its document's metadata. Empty input
	// yields empty output.
	Split(ctx context.Context, docs []domain.Document) []domain.Chunk
}
