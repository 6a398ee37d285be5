package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file extension or provider with no handler.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates no language model is configured.
	// Queries cannot be answered without one.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorStoreUnavailable indicates the vector store cannot be reached.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")

	// ErrMissingCredential indicates a remote provider has no API key.
	ErrMissingCredential = errors.New("missing API credential")

	// ErrDimensionMismatch indicates a vector whose length differs from the
	// collection's fixed dimensionality.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrEmptyEmbedding indicates the embedder returned no vectors.
	ErrEmptyEmbedding = errors.New("embedding returned no vectors")

	// Ingestion Errors.

	// ErrNothingToIngest indicates the unprocessed directory produced no chunks.
	ErrNothingToIngest = errors.New("no new documents to ingest")

	// ErrIngestionFailed indicates the store rejected the chunk batch.
	ErrIngestionFailed = errors.New("ingestion failed")

	// ErrIngestionInProgress indicates another ingestion run holds the lock.
	ErrIngestionInProgress = errors.New("ingestion in progress")
)
