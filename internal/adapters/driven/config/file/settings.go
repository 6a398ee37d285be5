package file

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/custodia-labs/docrag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driven"
)

// Configuration keys.
const (
	KeyDocsDir = "docs.dir"

	KeyChunkSize    = "chunking.size"
	KeyChunkOverlap = "chunking.overlap"

	KeyEmbeddingProvider  = "embedding.provider"
	KeyEmbeddingModel     = "embedding.model"
	KeyEmbeddingBaseURL   = "embedding.base_url"
	KeyEmbeddingAPIKey    = "embedding.api_key"
	KeyEmbeddingCacheSize = "embedding.cache_size"
	KeyEmbeddingCacheTTL  = "embedding.cache_ttl"

	KeyLLMProvider          = "llm.provider"
	KeyLLMModel             = "llm.model"
	KeyLLMBaseURL           = "llm.base_url"
	KeyLLMAPIKey            = "llm.api_key"
	KeyLLMAPIKeyEnv         = "llm.api_key_env"
	KeyLLMTemperature       = "llm.temperature"
	KeyLLMMaxTokens         = "llm.max_tokens"
	KeyLLMContextSize       = "llm.context_size"
	KeyLLMRequestsPerSecond = "llm.requests_per_second"

	KeyVectorBackend    = "vector_store.backend"
	KeyVectorCollection = "vector_store.collection"
	KeyVectorPath       = "vector_store.path"
	KeyVectorURL        = "vector_store.url"
	KeyVectorAPIKey     = "vector_store.api_key"
	KeyVectorDSN        = "vector_store.dsn"

	KeyDeterministicIDs = "ingest.deterministic_ids"
	KeyWatchDebounce    = "ingest.watch_debounce"

	KeyRAGK              = "rag.k"
	KeyRAGTargetQuestion = "rag.target_question"

	KeyScheduleCron = "schedule.cron"

	KeyLexiconPath = "lexicon.path"
)

// valueKind is the type a key is stored as.
type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
	kindBool
	kindDuration
)

var keyKinds = map[string]valueKind{
	KeyDocsDir: kindString,

	KeyChunkSize:    kindInt,
	KeyChunkOverlap: kindInt,

	KeyEmbeddingProvider:  kindString,
	KeyEmbeddingModel:     kindString,
	KeyEmbeddingBaseURL:   kindString,
	KeyEmbeddingAPIKey:    kindString,
	KeyEmbeddingCacheSize: kindInt,
	KeyEmbeddingCacheTTL:  kindDuration,

	KeyLLMProvider:          kindString,
	KeyLLMModel:             kindString,
	KeyLLMBaseURL:           kindString,
	KeyLLMAPIKey:            kindString,
	KeyLLMAPIKeyEnv:         kindString,
	KeyLLMTemperature:       kindFloat,
	KeyLLMMaxTokens:         kindInt,
	KeyLLMContextSize:       kindInt,
	KeyLLMRequestsPerSecond: kindFloat,

	KeyVectorBackend:    kindString,
	KeyVectorCollection: kindString,
	KeyVectorPath:       kindString,
	KeyVectorURL:        kindString,
	KeyVectorAPIKey:     kindString,
	KeyVectorDSN:        kindString,

	KeyDeterministicIDs: kindBool,
	KeyWatchDebounce:    kindDuration,

	KeyRAGK:              kindInt,
	KeyRAGTargetQuestion: kindString,

	KeyScheduleCron: kindString,

	KeyLexiconPath: kindString,
}

// Keys returns every recognised configuration key, sorted.
func Keys() []string {
	keys := make([]string, 0, len(keyKinds))
	for k := range keyKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParseValue converts raw to the type key is stored as.
// Durations stay strings so the file reads "500ms".
func ParseValue(key, raw string) (any, error) {
	kind, ok := keyKinds[key]
	if !ok {
		return nil, fmt.Errorf("%w: unknown key %q", domain.ErrInvalidInput, key)
	}

	switch kind {
	case kindInt:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s wants an integer, got %q", domain.ErrInvalidInput, key, raw)
		}
		return int64(v), nil
	case kindFloat:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s wants a number, got %q", domain.ErrInvalidInput, key, raw)
		}
		return v, nil
	case kindBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s wants true or false, got %q", domain.ErrInvalidInput, key, raw)
		}
		return v, nil
	case kindDuration:
		if _, err := time.ParseDuration(raw); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
		}
		return raw, nil
	default:
		return raw, nil
	}
}

// SettingsStore reads domain.Settings from a ConfigStore.
// Keys that are absent keep their DefaultSettings value.
type SettingsStore struct {
	store driven.ConfigStore
}

// NewSettingsStore creates a settings reader over store.
func NewSettingsStore(store driven.ConfigStore) *SettingsStore {
	return &SettingsStore{store: store}
}

// Load returns validated settings.
func (s *SettingsStore) Load() (domain.Settings, error) {
	settings, err := s.read()
	if err != nil {
		return domain.Settings{}, fmt.Errorf("config %s: %w", s.store.Path(), err)
	}
	return settings, nil
}

// Set parses raw for key and persists it. The edit is staged on a copy of
// the current values first, so a value that would leave the settings
// invalid never reaches the store.
func (s *SettingsStore) Set(key, raw string) error {
	value, err := ParseValue(key, raw)
	if err != nil {
		return err
	}

	staged := memory.NewConfigStoreFrom(s.store.All())
	if err := staged.Set(key, value); err != nil {
		return err
	}
	if _, err := NewSettingsStore(staged).read(); err != nil {
		return fmt.Errorf("config %s: %w", s.store.Path(), err)
	}
	return s.store.Set(key, value)
}

func (s *SettingsStore) read() (domain.Settings, error) {
	settings := domain.DefaultSettings()

	s.readString(KeyDocsDir, &settings.Docs.Dir)

	s.readInt(KeyChunkSize, &settings.Chunking.Size)
	s.readInt(KeyChunkOverlap, &settings.Chunking.Overlap)

	if s.has(KeyEmbeddingProvider) {
		settings.Embedding.Provider = domain.AIProvider(s.store.GetString(KeyEmbeddingProvider))
		if !settings.Embedding.Provider.IsLocal() {
			// Ollama defaults do not apply to cloud providers.
			settings.Embedding.Model = ""
			settings.Embedding.BaseURL = ""
		}
	}
	s.readString(KeyEmbeddingModel, &settings.Embedding.Model)
	s.readString(KeyEmbeddingBaseURL, &settings.Embedding.BaseURL)
	s.readString(KeyEmbeddingAPIKey, &settings.Embedding.APIKey)
	s.readInt(KeyEmbeddingCacheSize, &settings.Embedding.CacheSize)
	if err := s.readDuration(KeyEmbeddingCacheTTL, &settings.Embedding.CacheTTL); err != nil {
		return domain.Settings{}, err
	}

	if s.has(KeyLLMProvider) {
		settings.LLM.Provider = domain.AIProvider(s.store.GetString(KeyLLMProvider))
		if !settings.LLM.Provider.IsLocal() {
			settings.LLM.Model = ""
			settings.LLM.BaseURL = ""
		}
	}
	s.readString(KeyLLMModel, &settings.LLM.Model)
	s.readString(KeyLLMBaseURL, &settings.LLM.BaseURL)
	s.readString(KeyLLMAPIKey, &settings.LLM.APIKey)
	s.readString(KeyLLMAPIKeyEnv, &settings.LLM.APIKeyEnv)
	s.readFloat(KeyLLMTemperature, &settings.LLM.Temperature)
	s.readInt(KeyLLMMaxTokens, &settings.LLM.MaxTokens)
	s.readInt(KeyLLMContextSize, &settings.LLM.ContextSize)
	s.readFloat(KeyLLMRequestsPerSecond, &settings.LLM.RequestsPerSecond)

	if s.has(KeyVectorBackend) {
		settings.VectorStore.Backend = domain.VectorBackend(s.store.GetString(KeyVectorBackend))
	}
	s.readString(KeyVectorCollection, &settings.VectorStore.Collection)
	s.readString(KeyVectorPath, &settings.VectorStore.Path)
	s.readString(KeyVectorURL, &settings.VectorStore.URL)
	s.readString(KeyVectorAPIKey, &settings.VectorStore.APIKey)
	s.readString(KeyVectorDSN, &settings.VectorStore.DSN)

	if s.has(KeyDeterministicIDs) {
		settings.Ingest.DeterministicIDs = s.store.GetBool(KeyDeterministicIDs)
	}
	if err := s.readDuration(KeyWatchDebounce, &settings.Ingest.WatchDebounce); err != nil {
		return domain.Settings{}, err
	}

	s.readInt(KeyRAGK, &settings.RAG.K)
	s.readString(KeyRAGTargetQuestion, &settings.RAG.TargetQuestion)

	s.readString(KeyScheduleCron, &settings.Schedule.Cron)

	s.readString(KeyLexiconPath, &settings.Lexicon.Path)

	if err := settings.Validate(); err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}

func (s *SettingsStore) has(key string) bool {
	_, ok := s.store.Get(key)
	return ok
}

func (s *SettingsStore) readString(key string, dst *string) {
	if v := s.store.GetString(key); v != "" {
		*dst = v
	}
}

func (s *SettingsStore) readInt(key string, dst *int) {
	if s.has(key) {
		*dst = s.store.GetInt(key)
	}
}

func (s *SettingsStore) readFloat(key string, dst *float64) {
	if s.has(key) {
		*dst = s.store.GetFloat(key)
	}
}

func (s *SettingsStore) readDuration(key string, dst *time.Duration) error {
	v := s.store.GetString(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}
	*dst = d
	return nil
}
