package cli

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/docrag/internal/adapters/driven/ai"
	"github.com/custodia-labs/docrag/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docrag/internal/adapters/driven/storage"
	"github.com/custodia-labs/docrag/internal/adapters/driven/vectorstore"
	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driven"
	"github.com/custodia-labs/docrag/internal/core/services"
	"github.com/custodia-labs/docrag/internal/normalisers"
	"github.com/custodia-labs/docrag/internal/postprocessors"
)

// wiring builds the pipeline from settings on first use.
// Commands only pay for what they touch: ingest never creates an LLM.
type wiring struct {
	settings domain.Settings

	mu        sync.Mutex
	embedder  driven.EmbeddingService
	store     driven.VectorStore
	llm       driven.LLMService
	ingestion *services.IngestionService
	agent     *services.RAGAgent
}

func newWiring(settings domain.Settings) *wiring {
	return &wiring{settings: settings}
}

// vectorStore returns the shared store, creating the embedder and point store.
// Caller must hold w.mu.
func (w *wiring) vectorStore(ctx context.Context) (driven.VectorStore, error) {
	if w.store != nil {
		return w.store, nil
	}

	embedder, err := ai.CreateEmbeddingService(ctx, &w.settings.Embedding)
	if err != nil {
		return nil, fmt.Errorf("embedding: %w", err)
	}

	points, err := storage.NewPointStore(ctx, &w.settings.VectorStore)
	if err != nil {
		embedder.Close()
		return nil, fmt.Errorf("vector store: %w", err)
	}

	w.embedder = embedder
	w.store = vectorstore.New(embedder, points, vectorstore.Config{
		Collection:       w.settings.VectorStore.Collection,
		DeterministicIDs: w.settings.Ingest.DeterministicIDs,
	})
	return w.store, nil
}

func (w *wiring) ingestionService(ctx context.Context) (*services.IngestionService, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.ingestion != nil {
		return w.ingestion, nil
	}

	lexicon, err := file.LoadLexicon(w.settings.Lexicon.Path)
	if err != nil {
		return nil, err
	}

	loader, err := services.NewDocumentLoader(w.settings.Docs, normalisers.NewDefaultRegistry(), lexicon)
	if err != nil {
		return nil, err
	}

	store, err := w.vectorStore(ctx)
	if err != nil {
		return nil, err
	}

	w.ingestion = services.NewIngestionService(loader, postprocessors.BuildChunker(w.settings.Chunking), store)
	return w.ingestion, nil
}

func (w *wiring) queryService(ctx context.Context) (*services.RAGAgent, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.agent != nil {
		return w.agent, nil
	}

	store, err := w.vectorStore(ctx)
	if err != nil {
		return nil, err
	}

	llm, err := ai.CreateLLMService(ctx, &w.settings.LLM)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}

	agent, err := services.NewRAGAgent(store, llm, services.NewRAGConfig(w.settings.RAG, w.settings.LLM))
	if err != nil {
		llm.Close()
		return nil, err
	}

	w.llm = llm
	w.agent = agent
	return agent, nil
}

// Close releases everything that was built.
func (w *wiring) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var errs []error
	if w.llm != nil {
		errs = append(errs, w.llm.Close())
	}
	if w.store != nil {
		errs = append(errs, w.store.Close())
	}
	if w.embedder != nil {
		errs = append(errs, w.embedder.Close())
	}
	w.llm, w.store, w.embedder = nil, nil, nil
	w.ingestion, w.agent = nil, nil
	return errors.Join(errs...)
}
