package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driving"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question,omitempty" jsonschema:"the question to answer, in any language; empty runs the configured target question"`
	Region   string `json:"region,omitempty" jsonschema:"only use document chunks tagged with this region"`
	K        int    `json:"k,omitempty" jsonschema:"number of chunks to retrieve (default 3)"`
}

// StatsInput is the input schema for the stats tool.
type StatsInput struct{}

// IngestInput is the input schema for the ingest tool.
type IngestInput struct{}

// IngestOutput is the output schema for the ingest tool.
type IngestOutput struct {
	Ingested bool                   `json:"ingested"`
	Stats    domain.CollectionStats `json:"stats"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "ask",
		Description: "Answer a question from the indexed documents. Returns respuesta, " +
			"documento_referencia and pagina_referencia.",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "stats",
		Description: "Describe the vector store collection",
	}, s.handleStats)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest",
		Description: "Ingest new files from the unprocessed documents directory",
	}, s.handleIngest)
}

// handleAsk handles the ask tool invocation.
// Failures are reported inside the answer, never as tool errors.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, domain.StructuredAnswer, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, s.ports.Query.RunTargetQuestion(ctx), nil
	}

	answer := s.ports.Query.Query(ctx, question, driving.QueryOptions{
		Region: strings.TrimSpace(input.Region),
		K:      input.K,
	})
	return nil, answer, nil
}

// handleStats handles the stats tool invocation.
func (s *Server) handleStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatsInput,
) (*mcp.CallToolResult, domain.CollectionStats, error) {
	if s.ports.Ingestion == nil {
		return nil, domain.CollectionStats{}, ErrIngestionUnavailable
	}
	return nil, s.ports.Ingestion.Stats(ctx), nil
}

// handleIngest handles the ingest tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	if s.ports.Ingestion == nil {
		return nil, IngestOutput{}, ErrIngestionUnavailable
	}
	ingested := s.ports.Ingestion.Ingest(ctx)
	return nil, IngestOutput{
		Ingested: ingested,
		Stats:    s.ports.Ingestion.Stats(ctx),
	}, nil
}
