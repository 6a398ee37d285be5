package driven

import (
	"context"

	"github.com/custodia-labs/docrag/internal/core/domain"
)

// Normaliser turns one raw file into page-level documents.
// Each normaliser handles specific file extensions (e.g. ".pdf", ".md").
type Normaliser interface {
	// SupportedExtensions returns lowercase extensions including the dot.
	SupportedExtensions() []string

	// Priority returns the selection priority (higher = preferred).
	Priority() int

	// Normalise extracts documents from the raw file. Metadata backfill
	// (source, chunk_index, page, region) is the caller's job; normalisers
	// only set what their format knows natively.
	Normalise(ctx context.Context, raw *domain.RawDocument) ([]domain.Document, error)
}

// NormaliserRegistry selects the appropriate normaliser for a file.
type NormaliserRegistry interface {
	// Normalise transforms a raw file using the best matching normaliser.
	// Returns domain.ErrUnsupportedType when no normaliser handles the extension.
	Normalise(ctx context.Context, raw *domain.RawDocument) ([]domain.Document, error)

	// Register adds a normaliser to the registry.
	Register(normaliser Normaliser)

	// Supports reports whether an extension has a normaliser.
	Supports(ext string) bool

	// SupportedExtensions returns all extensions that can be normalised.
	SupportedExtensions() []string
}
