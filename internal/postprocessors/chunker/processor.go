// Package chunker provides a fixed-size text chunker with overlap.
package chunker

import (
	"context"
	"strings"

	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.Chunker = (*Processor)(nil)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// Processor splits document content into fixed-size chunks.
// Sizes count runes, so accented text is never cut mid-character.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Split chunks every document in order.
func (p *Processor) Split(ctx context.Context, docs []domain.Document) []domain.Chunk {
	var chunks []domain.Chunk
	for i := range docs {
		if ctx.Err() != nil {
			break
		}
		chunks = append(chunks, p.Process(&docs[i])...)
	}
	return chunks
}

// SplitText wraps an arbitrary string into a document and splits it.
func (p *Processor) SplitText(text string, md domain.Metadata) []domain.Chunk {
	return p.Process(&domain.Document{Content: text, Metadata: md})
}

// Process splits a single document. Whitespace-only windows are dropped.
func (p *Processor) Process(doc *domain.Document) []domain.Chunk {
	if doc == nil || strings.TrimSpace(doc.Content) == "" {
		return nil
	}

	runes := []rune(doc.Content)
	contentLen := len(runes)
	step := p.chunkSize - p.overlap

	chunks := make([]domain.Chunk, 0, contentLen/step+1)

	for start := 0; start < contentLen; start += step {
		end := start + p.chunkSize
		if end > contentLen {
			end = contentLen
		}

		text := strings.TrimSpace(string(runes[start:end]))
		if text != "" {
			chunks = append(chunks, domain.Chunk{
				Content:  text,
				Metadata: doc.Metadata.Clone(),
			})
		}

		if end == contentLen {
			break
		}
	}

	return chunks
}
