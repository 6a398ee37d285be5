// Package postprocessors builds the chunking stage from configuration.
package postprocessors

import (
	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driven"
	"github.com/custodia-labs/docrag/internal/postprocessors/chunker"
)

// BuildChunker creates the fixed-size chunker from settings.
// Non-positive sizes fall back to the chunker defaults.
func BuildChunker(cfg domain.ChunkingSettings) driven.Chunker {
	var opts []chunker.Option

	if cfg.Size > 0 {
		opts = append(opts, chunker.WithChunkSize(cfg.Size))
	}
	if cfg.Overlap >= 0 {
		opts = append(opts, chunker.WithOverlap(cfg.Overlap))
	}

	return chunker.New(opts...)
}
