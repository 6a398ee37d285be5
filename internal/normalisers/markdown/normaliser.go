package markdown

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driven"
	"github.com/custodia-labs/docrag/internal/logger"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// pageMarker matches the literal page delimiter used by exported documents.
var pageMarker = regexp.MustCompile(`---Page (\d+)---`)

// Normaliser handles Markdown documents.
type Normaliser struct {
	md goldmark.Markdown
}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{md: goldmark.New()}
}

// SupportedExtensions returns the extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".md", ".markdown"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise parses the markdown structurally and returns its text as a
// single document. When that yields nothing, the raw text is split on
// "---Page N---" markers instead.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) ([]domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content := n.extractText(raw.Content)
	if content != "" {
		return []domain.Document{{Content: content, Metadata: domain.Metadata{}}}, nil
	}

	logger.Debug("markdown %s: structural load empty, using page-marker fallback", raw.Filename)
	return SplitPages(string(raw.Content), raw.Filename), nil
}

// extractText renders the text of every block node, one block per paragraph.
// Raw HTML is dropped; code blocks keep their literal lines.
func (n *Normaliser) extractText(src []byte) string {
	reader := text.NewReader(src)
	doc := n.md.Parser().Parse(reader)

	var blocks []string
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		if txt := blockText(node, reader.Source()); txt != "" {
			blocks = append(blocks, txt)
		}
	}
	return strings.Join(blocks, "\n\n")
}

func blockText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if node.Type() == ast.TypeBlock && sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
				sb.WriteByte('\n')
			}
			return ast.WalkContinue, nil
		}

		switch t := node.(type) {
		case *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				sb.Write(seg.Value(source))
			}
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte('\n')
			}
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

// SplitPages splits raw text on "---Page N---" markers.
// Text before the first marker is page 1; each marked segment takes the
// marker's number. Empty segments are dropped.
func SplitPages(content, filename string) []domain.Document {
	var docs []domain.Document

	add := func(body string, page int) {
		body = strings.TrimSpace(body)
		if body == "" {
			return
		}
		docs = append(docs, domain.Document{
			Content: body,
			Metadata: domain.Metadata{
				domain.MetaSource:     filename,
				domain.MetaPage:       page,
				domain.MetaChunkIndex: len(docs),
			},
		})
	}

	matches := pageMarker.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		add(content, 1)
		return docs
	}

	add(content[:matches[0][0]], 1)

	for i, m := range matches {
		page, err := strconv.Atoi(content[m[2]:m[3]])
		if err != nil {
			continue
		}
		end := len(content)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		add(content[m[1]:end], page)
	}

	return docs
}
