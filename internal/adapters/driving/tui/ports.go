// Package tui provides an interactive terminal chat over the ingested documents.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/docrag/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI calls.
type Ports struct {
	// Query answers questions.
	Query driving.QueryService

	// Ingestion runs ingestion and reports collection statistics.
	// Optional: the ingest and stats keys are disabled without it.
	Ingestion driving.IngestionService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Query == nil {
		return ErrMissingQueryService
	}
	return nil
}
