package domain

import (
	"fmt"
	"path/filepath"
	"time"
)

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderGroq is the Groq cloud API (OpenAI-compatible).
	AIProviderGroq AIProvider = "groq"

	// AIProviderGemini is the Google Gemini API.
	AIProviderGemini AIProvider = "gemini"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderGroq, AIProviderGemini:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderGroq || p == AIProviderGemini
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// LLMVariant returns the call shape the provider's language model accepts.
func (p AIProvider) LLMVariant() LLMVariant {
	switch p {
	case AIProviderOpenAI, AIProviderGroq:
		return LLMVariantChat
	default:
		return LLMVariantCompletion
	}
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderGroq:
		return "Groq (cloud)"
	case AIProviderGemini:
		return "Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// LLMVariant is the shape of a language model call.
type LLMVariant string

const (
	// LLMVariantCompletion takes a single prompt and returns a string.
	LLMVariantCompletion LLMVariant = "completion"

	// LLMVariantChat takes a list of role/content messages and returns
	// the first choice's message content.
	LLMVariantChat LLMVariant = "chat"
)

// VectorBackend identifies a point store implementation.
type VectorBackend string

// Available vector store backends.
const (
	VectorBackendSQLite   VectorBackend = "sqlite"
	VectorBackendQdrant   VectorBackend = "qdrant"
	VectorBackendPgvector VectorBackend = "pgvector"
	VectorBackendMemory   VectorBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b VectorBackend) IsValid() bool {
	switch b {
	case VectorBackendSQLite, VectorBackendQdrant, VectorBackendPgvector, VectorBackendMemory:
		return true
	default:
		return false
	}
}

// Defaults.
const (
	DefaultDocsDir        = "docs"
	DefaultLexiconPath    = "data/geographic_data.json"
	DefaultVectorDBPath   = "data/vector_db"
	DefaultCollectionName = "chinchilla_docs"
	DefaultChunkSize      = 1000
	DefaultChunkOverlap   = 200
	DefaultK              = 3
	DefaultTargetQuestion = "¿En qué proyectos fue relevante la chinchilla chinchilla?"
	DefaultEmbeddingModel = "all-minilm"
	DefaultLocalModel     = "mistral:7b-instruct"
	DefaultGroqModel      = "meta-llama/llama-4-scout-17b-16e-instruct"
	DefaultGroqBaseURL    = "https://api.groq.com/openai/v1"
	DefaultGroqAPIKeyEnv  = "GROQ_API_KEY"
	DefaultOllamaURL      = "http://localhost:11434"
	DefaultQdrantURL      = "http://localhost:6333"
	DefaultTemperature    = 0.1
	DefaultContextSize    = 4096
	DefaultMaxTokens      = 512
	DefaultCacheSize      = 1024
	DefaultCacheTTL       = 30 * time.Minute
	DefaultWatchDebounce  = 2 * time.Second
	DefaultScheduleCron   = "*/15 * * * *"
	DefaultRequestsPerSec = 2.0
	unprocessedDirName    = "unprocessed"
	processedDirName      = "processed"
)

// DocsSettings locates the documents root.
type DocsSettings struct {
	// Dir holds the unprocessed and processed sub-folders.
	Dir string
}

// UnprocessedDir returns the folder new files are dropped into.
func (d DocsSettings) UnprocessedDir() string {
	return filepath.Join(d.Dir, unprocessedDirName)
}

// ProcessedDir returns the folder successfully loaded files are moved to.
func (d DocsSettings) ProcessedDir() string {
	return filepath.Join(d.Dir, processedDirName)
}

// ChunkingSettings controls fixed-size splitting.
type ChunkingSettings struct {
	Size    int
	Overlap int
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key for cloud providers.
	APIKey string

	// CacheSize is the number of cached query embeddings (0 disables).
	CacheSize int

	// CacheTTL is how long a cached embedding stays valid.
	CacheTTL time.Duration
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds language model configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key. When empty it is read from APIKeyEnv.
	APIKey string

	// APIKeyEnv names the environment variable holding the key.
	APIKeyEnv string

	// Temperature is the sampling temperature.
	Temperature float64

	// MaxTokens caps the generated output.
	MaxTokens int

	// ContextSize is the local model's context window.
	ContextSize int

	// RequestsPerSecond throttles remote calls (0 disables).
	RequestsPerSecond float64
}

// Variant returns the call shape of the configured provider.
func (l LLMSettings) Variant() LLMVariant {
	return l.Provider.LLMVariant()
}

// VectorStoreSettings selects and configures the point store.
type VectorStoreSettings struct {
	// Backend is the store implementation.
	Backend VectorBackend

	// Collection is the collection name.
	Collection string

	// Path is the on-disk directory for the sqlite backend.
	Path string

	// URL is the Qdrant endpoint.
	URL string

	// APIKey is the optional Qdrant API key.
	APIKey string

	// DSN is the PostgreSQL connection string for the pgvector backend.
	DSN string
}

// IngestSettings controls ingestion behaviour.
type IngestSettings struct {
	// DeterministicIDs derives point IDs from source, chunk_index and content
	// so re-ingesting the same file overwrites instead of duplicating.
	DeterministicIDs bool

	// WatchDebounce is the quiet period before a watch-triggered ingestion.
	WatchDebounce time.Duration
}

// RAGSettings controls the query orchestrator.
type RAGSettings struct {
	// K is the number of chunks retrieved per query.
	K int

	// TargetQuestion is the predefined demo question.
	TargetQuestion string
}

// ScheduleSettings controls periodic ingestion.
type ScheduleSettings struct {
	// Cron is a five-field cron expression.
	Cron string
}

// LexiconSettings locates the region lexicon file.
type LexiconSettings struct {
	// Path is the JSON file with a "regiones_nombres" list.
	Path string
}

// Settings holds all application settings.
type Settings struct {
	Docs        DocsSettings
	Chunking    ChunkingSettings
	Embedding   EmbeddingSettings
	LLM         LLMSettings
	VectorStore VectorStoreSettings
	Ingest      IngestSettings
	RAG         RAGSettings
	Schedule    ScheduleSettings
	Lexicon     LexiconSettings
}

// DefaultSettings returns settings matching a local-only deployment:
// Ollama for embeddings and generation, sqlite for vectors.
func DefaultSettings() Settings {
	return Settings{
		Docs:     DocsSettings{Dir: DefaultDocsDir},
		Chunking: ChunkingSettings{Size: DefaultChunkSize, Overlap: DefaultChunkOverlap},
		Embedding: EmbeddingSettings{
			Provider:  AIProviderOllama,
			Model:     DefaultEmbeddingModel,
			BaseURL:   DefaultOllamaURL,
			CacheSize: DefaultCacheSize,
			CacheTTL:  DefaultCacheTTL,
		},
		LLM: LLMSettings{
			Provider:          AIProviderOllama,
			Model:             DefaultLocalModel,
			BaseURL:           DefaultOllamaURL,
			Temperature:       DefaultTemperature,
			MaxTokens:         DefaultMaxTokens,
			ContextSize:       DefaultContextSize,
			RequestsPerSecond: DefaultRequestsPerSec,
		},
		VectorStore: VectorStoreSettings{
			Backend:    VectorBackendSQLite,
			Collection: DefaultCollectionName,
			Path:       DefaultVectorDBPath,
			URL:        DefaultQdrantURL,
		},
		Ingest:   IngestSettings{WatchDebounce: DefaultWatchDebounce},
		RAG:      RAGSettings{K: DefaultK, TargetQuestion: DefaultTargetQuestion},
		Schedule: ScheduleSettings{Cron: DefaultScheduleCron},
		Lexicon:  LexiconSettings{Path: DefaultLexiconPath},
	}
}

// Validate checks settings that would make the pipeline unusable.
// Credentials are checked later, when the provider is constructed.
func (s Settings) Validate() error {
	if s.Docs.Dir == "" {
		return fmt.Errorf("%w: docs dir is required", ErrInvalidInput)
	}
	if s.Chunking.Size <= 0 {
		return fmt.Errorf("%w: chunk size must be positive", ErrInvalidInput)
	}
	if s.Chunking.Overlap < 0 {
		return fmt.Errorf("%w: chunk overlap must not be negative", ErrInvalidInput)
	}
	if !s.Embedding.Provider.IsValid() {
		return fmt.Errorf("%w: embedding provider %q", ErrUnsupportedType, s.Embedding.Provider)
	}
	if !s.LLM.Provider.IsValid() {
		return fmt.Errorf("%w: llm provider %q", ErrUnsupportedType, s.LLM.Provider)
	}
	if !s.VectorStore.Backend.IsValid() {
		return fmt.Errorf("%w: vector store backend %q", ErrUnsupportedType, s.VectorStore.Backend)
	}
	if s.VectorStore.Collection == "" {
		return fmt.Errorf("%w: collection name is required", ErrInvalidInput)
	}
	if s.RAG.K <= 0 {
		return fmt.Errorf("%w: rag k must be positive", ErrInvalidInput)
	}
	return nil
}
