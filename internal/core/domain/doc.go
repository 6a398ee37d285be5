// Package domain defines the core business entities for docrag.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A normalised page or section of an ingested file
//   - Chunk: A fixed-size slice of a document ready for embedding
//   - IndexedPoint: A vector plus payload persisted in a collection
//   - StructuredAnswer: The three-key answer returned to callers
//   - RegionLexicon: Known region names used for metadata enrichment
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
