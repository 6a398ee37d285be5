package ai

import (
	"context"

	"github.com/custodia-labs/docrag/internal/core/domain"
)

// ConfigValidator checks that configured AI providers are reachable.
type ConfigValidator struct{}

// NewConfigValidator creates a new AI config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateEmbedding builds the configured embedding service, pings it and
// releases it again.
func (v *ConfigValidator) ValidateEmbedding(ctx context.Context, config *domain.EmbeddingSettings) error {
	svc, err := CreateAndValidateEmbeddingService(ctx, config)
	if err != nil {
		return err
	}
	return svc.Close()
}

// ValidateLLM builds the configured LLM service, pings it and releases it again.
func (v *ConfigValidator) ValidateLLM(ctx context.Context, config *domain.LLMSettings) error {
	svc, err := CreateAndValidateLLMService(ctx, config)
	if err != nil {
		return err
	}
	return svc.Close()
}
