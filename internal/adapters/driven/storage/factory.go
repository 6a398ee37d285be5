// Package storage selects a point store backend from settings.
package storage

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docrag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docrag/internal/adapters/driven/storage/pgvector"
	"github.com/custodia-labs/docrag/internal/adapters/driven/storage/qdrant"
	"github.com/custodia-labs/docrag/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driven"
)

// NewPointStore opens the backend named by settings.Backend.
func NewPointStore(ctx context.Context, settings *domain.VectorStoreSettings) (driven.PointStore, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: no vector store settings", domain.ErrInvalidInput)
	}

	switch settings.Backend {
	case domain.VectorBackendSQLite, "":
		store, err := sqlite.NewStore(settings.Path)
		if err != nil {
			return nil, err
		}
		return store, nil

	case domain.VectorBackendQdrant:
		return qdrant.NewStore(qdrant.Config{
			BaseURL: settings.URL,
			APIKey:  settings.APIKey,
		}), nil

	case domain.VectorBackendPgvector:
		store, err := pgvector.NewStore(ctx, settings.DSN)
		if err != nil {
			return nil, err
		}
		return store, nil

	case domain.VectorBackendMemory:
		return memory.NewPointStore(), nil

	default:
		return nil, fmt.Errorf("%w: vector store backend %q", domain.ErrUnsupportedType, settings.Backend)
	}
}
