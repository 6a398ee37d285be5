// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/custodia-labs/docrag/internal/adapters/driven/embedding/cache"
	geminiembed "github.com/custodia-labs/docrag/internal/adapters/driven/embedding/gemini"
	ollamaembed "github.com/custodia-labs/docrag/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/docrag/internal/adapters/driven/embedding/openai"
	geminillm "github.com/custodia-labs/docrag/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/custodia-labs/docrag/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/docrag/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// Environment variables consulted when a cloud provider has no key in settings.
const (
	OpenAIAPIKeyEnv = "OPENAI_API_KEY"
	GeminiAPIKeyEnv = "GEMINI_API_KEY"
)

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
func CreateAndValidateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
func CreateAndValidateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := CreateLLMService(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// CreateEmbeddingService creates the embedding service selected by settings.
// A positive CacheSize wraps it in an LRU cache.
func CreateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: no embedding settings", domain.ErrInvalidInput)
	}

	var (
		svc driven.EmbeddingService
		err error
	)
	switch settings.Provider {
	case domain.AIProviderOllama:
		svc = createOllamaEmbedding(settings)

	case domain.AIProviderOpenAI:
		svc, err = createOpenAIEmbedding(settings)

	case domain.AIProviderGemini:
		svc, err = createGeminiEmbedding(ctx, settings)

	case domain.AIProviderGroq:
		// Groq serves chat models only.
		return nil, fmt.Errorf("%w: groq does not support embeddings, use ollama, openai or gemini",
			domain.ErrUnsupportedType)

	default:
		return nil, fmt.Errorf("%w: embedding provider %q", domain.ErrUnsupportedType, settings.Provider)
	}
	if err != nil {
		return nil, err
	}

	if settings.CacheSize > 0 {
		svc = cache.Wrap(svc, settings.CacheSize, settings.CacheTTL)
	}
	return svc, nil
}

// CreateLLMService creates the LLM service selected by settings.
func CreateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: no llm settings", domain.ErrInvalidInput)
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaLLM(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAILLM(settings, openaillm.DefaultBaseURL, openaillm.DefaultLLMModel, OpenAIAPIKeyEnv)

	case domain.AIProviderGroq:
		return createOpenAILLM(settings, domain.DefaultGroqBaseURL, domain.DefaultGroqModel, domain.DefaultGroqAPIKeyEnv)

	case domain.AIProviderGemini:
		return createGeminiLLM(ctx, settings)

	default:
		return nil, fmt.Errorf("%w: llm provider %q", domain.ErrUnsupportedType, settings.Provider)
	}
}

// resolveAPIKey prefers the configured key, then the named variable, then the fallback variable.
func resolveAPIKey(key, env, fallbackEnv string) string {
	if key != "" {
		return key
	}
	if env != "" {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	return os.Getenv(fallbackEnv)
}

// createOllamaEmbedding creates an Ollama embedding service.
func createOllamaEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createOpenAIEmbedding creates an OpenAI embedding service.
func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:  resolveAPIKey(settings.APIKey, "", OpenAIAPIKeyEnv),
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// createGeminiEmbedding creates a Gemini embedding service.
func createGeminiEmbedding(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := geminiembed.NewEmbeddingService(ctx, geminiembed.Config{
		APIKey:  resolveAPIKey(settings.APIKey, "", GeminiAPIKeyEnv),
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// createOllamaLLM creates an Ollama LLM service.
func createOllamaLLM(settings *domain.LLMSettings) driven.LLMService {
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL:     settings.BaseURL,
		Model:       settings.Model,
		Temperature: settings.Temperature,
		ContextSize: settings.ContextSize,
	})
}

// createOpenAILLM creates a chat service for OpenAI or any compatible API.
func createOpenAILLM(settings *domain.LLMSettings, baseURL, model, keyEnv string) (driven.LLMService, error) {
	if settings.BaseURL != "" {
		baseURL = settings.BaseURL
	}
	if settings.Model != "" {
		model = settings.Model
	}

	svc, err := openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:            resolveAPIKey(settings.APIKey, settings.APIKeyEnv, keyEnv),
		BaseURL:           baseURL,
		Model:             model,
		MaxTokens:         settings.MaxTokens,
		Temperature:       settings.Temperature,
		RequestsPerSecond: settings.RequestsPerSecond,
	})
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// createGeminiLLM creates a Gemini LLM service.
func createGeminiLLM(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := geminillm.NewLLMService(ctx, geminillm.Config{
		APIKey:      resolveAPIKey(settings.APIKey, settings.APIKeyEnv, GeminiAPIKeyEnv),
		BaseURL:     settings.BaseURL,
		Model:       settings.Model,
		MaxTokens:   settings.MaxTokens,
		Temperature: settings.Temperature,
	})
	if err != nil {
		return nil, err
	}
	return svc, nil
}
