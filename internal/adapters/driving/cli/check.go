package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docrag/internal/adapters/driven/ai"
	"github.com/custodia-labs/docrag/internal/core/domain"
)

// providerValidator is replaced in tests.
var providerValidator interface {
	ValidateEmbedding(ctx context.Context, cfg *domain.EmbeddingSettings) error
	ValidateLLM(ctx context.Context, cfg *domain.LLMSettings) error
} = ai.NewConfigValidator()

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the embedding and LLM providers are reachable",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	settings := currentSettings()
	ctx := cmd.Context()
	failed := false

	if err := providerValidator.ValidateEmbedding(ctx, &settings.Embedding); err != nil {
		cmd.Printf("embedding (%s): %v\n", settings.Embedding.Provider, err)
		failed = true
	} else {
		cmd.Printf("embedding (%s): ok\n", settings.Embedding.Provider)
	}

	if err := providerValidator.ValidateLLM(ctx, &settings.LLM); err != nil {
		cmd.Printf("llm (%s): %v\n", settings.LLM.Provider, err)
		failed = true
	} else {
		cmd.Printf("llm (%s): ok\n", settings.LLM.Provider)
	}

	if failed {
		return errors.New("provider check failed")
	}
	return nil
}
