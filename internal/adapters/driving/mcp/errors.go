// Package mcp provides an MCP (Model Context Protocol) server adapter for docrag.
// It lets AI assistants ask questions against the indexed documents.
package mcp

import "errors"

// ErrMissingAgent is returned when the query service is not provided.
var ErrMissingAgent = errors.New("mcp: query service is required")

// ErrIngestionUnavailable is returned by tools that need the ingestion service
// when the server was started without one.
var ErrIngestionUnavailable = errors.New("mcp: ingestion service not configured")
