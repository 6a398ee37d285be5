package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driven"
	"github.com/custodia-labs/docrag/internal/core/ports/driving"
	"github.com/custodia-labs/docrag/internal/logger"
)

// Ensure RAGAgent implements the interface.
var _ driving.QueryService = (*RAGAgent)(nil)

// RAGConfig holds the retrieval and generation parameters of a RAGAgent.
type RAGConfig struct {
	K              int
	TargetQuestion string
	Model          string
	MaxTokens      int
	Temperature    float64
}

// NewRAGConfig derives a RAGConfig from settings, filling defaults.
func NewRAGConfig(rag domain.RAGSettings, llm domain.LLMSettings) RAGConfig {
	cfg := RAGConfig{
		K:              rag.K,
		TargetQuestion: rag.TargetQuestion,
		Model:          llm.Model,
		MaxTokens:      llm.MaxTokens,
		Temperature:    llm.Temperature,
	}
	if cfg.K <= 0 {
		cfg.K = domain.DefaultK
	}
	if cfg.TargetQuestion == "" {
		cfg.TargetQuestion = domain.DefaultTargetQuestion
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = domain.DefaultMaxTokens
	}
	return cfg
}

// RAGAgent answers questions by retrieving chunks and prompting a model.
type RAGAgent struct {
	store driven.VectorStore
	llm   driven.LLMService
	cfg   RAGConfig
}

// NewRAGAgent creates an agent. A language model is required.
func NewRAGAgent(store driven.VectorStore, llm driven.LLMService, cfg RAGConfig) (*RAGAgent, error) {
	if llm == nil {
		return nil, fmt.Errorf("%w: no language model configured", domain.ErrLLMUnavailable)
	}
	if store == nil {
		return nil, fmt.Errorf("%w: no vector store configured", domain.ErrVectorStoreUnavailable)
	}
	if cfg.K <= 0 {
		cfg.K = domain.DefaultK
	}
	return &RAGAgent{store: store, llm: llm, cfg: cfg}, nil
}

// Query answers a question. It never fails: retrieval errors count as
// no documents, generation errors produce the error answer.
func (a *RAGAgent) Query(ctx context.Context, question string, opts driving.QueryOptions) domain.StructuredAnswer {
	k := opts.K
	if k <= 0 {
		k = a.cfg.K
	}

	results, err := a.store.SimilaritySearch(ctx, question, k, domain.SearchFilter{Region: opts.Region})
	if err != nil {
		logger.Warn("retrieval failed: %v", err)
		results = nil
	}
	if len(results) == 0 {
		return domain.NoDocumentsAnswer()
	}
	logger.Debug("retrieved %d chunks", len(results))

	prompt := BuildPrompt(question, results)
	raw, err := a.generate(ctx, prompt)
	if err != nil {
		logger.Error("generating response: %v", err)
		return domain.GenerationErrorAnswer()
	}
	logger.Debug("model output: %s", raw)

	return ParseAnswer(raw)
}

// RunTargetQuestion answers the configured target question.
func (a *RAGAgent) RunTargetQuestion(ctx context.Context) domain.StructuredAnswer {
	logger.Section("Target question")
	logger.Info("question: %s", a.cfg.TargetQuestion)
	return a.Query(ctx, a.cfg.TargetQuestion, driving.QueryOptions{})
}

func (a *RAGAgent) generate(ctx context.Context, prompt string) (string, error) {
	switch a.llm.Variant() {
	case domain.LLMVariantChat:
		return a.llm.Chat(ctx, []driven.ChatMessage{
			{Role: driven.RoleUser, Content: prompt},
		}, driven.ChatOptions{
			Model:       a.cfg.Model,
			MaxTokens:   a.cfg.MaxTokens,
			Temperature: a.cfg.Temperature,
		})
	default:
		return a.llm.Generate(ctx, prompt, driven.GenerateOptions{
			MaxTokens:   a.cfg.MaxTokens,
			Temperature: a.cfg.Temperature,
		})
	}
}
