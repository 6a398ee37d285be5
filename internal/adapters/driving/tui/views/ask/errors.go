package ask

import "errors"

// Error definitions for the ask view.
var (
	// ErrNoQueryService indicates that no query service was provided.
	ErrNoQueryService = errors.New("query service is required")

	// ErrNoIngestionService indicates that ingestion is not available.
	ErrNoIngestionService = errors.New("ingestion is not available")
)
