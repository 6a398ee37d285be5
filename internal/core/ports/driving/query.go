package driving

import (
	"context"

	"github.com/custodia-labs/docrag/internal/core/domain"
)

// QueryOptions narrows a question.
type QueryOptions struct {
	// Region restricts retrieval to chunks tagged with this region.
	Region string

	// K is the number of chunks to retrieve. Zero means the default.
	K int
}

// QueryService answers questions from the indexed corpus.
// It never returns an error: every failure maps to a StructuredAnswer.
type QueryService interface {
	// Query answers a question.
	Query(ctx context.Context, question string, opts QueryOptions) domain.StructuredAnswer

	// RunTargetQuestion answers the configured demo question.
	RunTargetQuestion(ctx context.Context) domain.StructuredAnswer
}
