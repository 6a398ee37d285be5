package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driven"
	"github.com/custodia-labs/docrag/internal/logger"
)

// DocumentLoader reads new files from the unprocessed directory,
// normalises them, backfills provenance metadata and moves the files
// that loaded successfully to the processed directory.
type DocumentLoader struct {
	unprocessedDir string
	processedDir   string
	registry       driven.NormaliserRegistry
	lexicon        domain.RegionLexicon
}

// NewDocumentLoader creates a loader and ensures both directories exist.
func NewDocumentLoader(
	docs domain.DocsSettings,
	registry driven.NormaliserRegistry,
	lexicon domain.RegionLexicon,
) (*DocumentLoader, error) {
	if registry == nil {
		return nil, fmt.Errorf("%w: normaliser registry is required", domain.ErrInvalidInput)
	}

	l := &DocumentLoader{
		unprocessedDir: docs.UnprocessedDir(),
		processedDir:   docs.ProcessedDir(),
		registry:       registry,
		lexicon:        lexicon,
	}

	for _, dir := range []string{l.unprocessedDir, l.processedDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	return l, nil
}

// UnprocessedDir returns the directory scanned for new files.
func (l *DocumentLoader) UnprocessedDir() string {
	return l.unprocessedDir
}

// ProcessedDir returns the directory loaded files are moved to.
func (l *DocumentLoader) ProcessedDir() string {
	return l.processedDir
}

// HasUnprocessedDocuments reports whether the unprocessed directory has entries.
func (l *DocumentLoader) HasUnprocessedDocuments() bool {
	entries, err := os.ReadDir(l.unprocessedDir)
	return err == nil && len(entries) > 0
}

// LoadDocuments normalises every supported file in the unprocessed directory.
// Unsupported extensions are skipped silently and stay in place. A file that
// fails to load is logged and left in place; the batch continues. Files that
// loaded are moved once the whole batch is done.
func (l *DocumentLoader) LoadDocuments(ctx context.Context) ([]domain.Document, error) {
	entries, err := os.ReadDir(l.unprocessedDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Document{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", l.unprocessedDir, err)
	}

	documents := []domain.Document{}
	var loaded []string

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.Type().IsRegular() {
			continue
		}

		name := entry.Name()
		raw := &domain.RawDocument{Filename: name, Path: filepath.Join(l.unprocessedDir, name)}
		if !l.registry.Supports(raw.Extension()) {
			continue
		}

		docs, err := l.loadFile(ctx, raw)
		if err != nil {
			logger.Warn("skipping %s: %v", name, err)
			continue
		}

		logger.Debug("loaded %s: %d documents", name, len(docs))
		documents = append(documents, docs...)
		loaded = append(loaded, name)
	}

	l.moveProcessed(loaded)
	return documents, nil
}

func (l *DocumentLoader) loadFile(ctx context.Context, raw *domain.RawDocument) ([]domain.Document, error) {
	content, err := os.ReadFile(raw.Path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	raw.Content = content

	docs, err := l.registry.Normalise(ctx, raw)
	if err != nil {
		return nil, err
	}

	Backfill(docs, raw.Filename, l.lexicon)
	return docs, nil
}

func (l *DocumentLoader) moveProcessed(names []string) {
	for _, name := range names {
		src := filepath.Join(l.unprocessedDir, name)
		dst := filepath.Join(l.processedDir, name)
		if err := os.Rename(src, dst); err != nil {
			logger.Warn("moving %s to processed: %v", name, err)
			continue
		}
		logger.Debug("moved %s to processed", name)
	}
}

// Backfill completes provenance metadata in place: source defaults to the
// filename, chunk_index to the document's position, page to chunk_index.
// Region is always derived from the content.
func Backfill(docs []domain.Document, filename string, lexicon domain.RegionLexicon) {
	for i := range docs {
		md := docs[i].Metadata
		if md == nil {
			md = domain.Metadata{}
		}
		if !md.Has(domain.MetaSource) {
			md[domain.MetaSource] = filename
		}
		if !md.Has(domain.MetaChunkIndex) {
			md[domain.MetaChunkIndex] = i
		}
		if !md.Has(domain.MetaPage) {
			md[domain.MetaPage] = md[domain.MetaChunkIndex]
		}
		md[domain.MetaRegion] = lexicon.Match(docs[i].Content)
		docs[i].Metadata = md
	}
}
