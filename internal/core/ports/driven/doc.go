// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Normaliser: Turns one raw file into page-level documents
//   - NormaliserRegistry: Selects a normaliser by file extension
//   - Chunker: Splits documents into fixed-size chunks
//   - EmbeddingService: Maps text to fixed-length vectors
//   - VectorStore: Collection lifecycle and filtered similarity search
//   - PointStore: Backend persistence used by VectorStore
//   - LLMService: Language model in completion or chat form
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
