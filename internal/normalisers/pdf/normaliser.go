// Package pdf extracts page-level text from PDF files.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dslipak/pdf"

	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driven"
	"github.com/custodia-labs/docrag/internal/logger"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// ErrUnreadablePDF is returned when the file cannot be parsed as a PDF.
var ErrUnreadablePDF = errors.New("pdf: unreadable document")

// PageReader exposes the pages of an opened PDF.
type PageReader interface {
	NumPage() int
	PageText(i int) (string, error)
}

// OpenFunc opens PDF bytes for page reading.
type OpenFunc func(data []byte) (PageReader, error)

// Normaliser produces one document per physical page.
type Normaliser struct {
	open OpenFunc
}

// New creates a PDF normaliser backed by github.com/dslipak/pdf.
func New() *Normaliser {
	return &Normaliser{open: openPDF}
}

// NewWithOpener creates a PDF normaliser with a custom page reader.
// This is primarily used for testing.
func NewWithOpener(open OpenFunc) *Normaliser {
	return &Normaliser{open: open}
}

// SupportedExtensions returns the extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".pdf"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise extracts the text of every page. Page numbers are 1-based;
// pages without extractable text are skipped.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (docs []domain.Document, err error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			docs = nil
			err = fmt.Errorf("%w: %s: %v", ErrUnreadablePDF, raw.Filename, r)
		}
	}()

	reader, err := n.open(raw.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreadablePDF, raw.Filename, err)
	}

	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := reader.PageText(i)
		if err != nil {
			logger.Warn("pdf %s: page %d: %v", raw.Filename, i, err)
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		docs = append(docs, domain.Document{
			Content:  text,
			Metadata: domain.Metadata{domain.MetaPage: i},
		})
	}

	return docs, nil
}

// dslipakReader adapts *pdf.Reader to PageReader.
type dslipakReader struct {
	r *pdf.Reader
}

func openPDF(data []byte) (PageReader, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return &dslipakReader{r: r}, nil
}

func (d *dslipakReader) NumPage() int {
	return d.r.NumPage()
}

func (d *dslipakReader) PageText(i int) (string, error) {
	page := d.r.Page(i)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}
