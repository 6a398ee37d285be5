// Package transcript renders the question and answer history.
package transcript

import (
	"strings"

	"github.com/custodia-labs/docrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docrag/internal/core/domain"
)

// Entry is one answered question.
type Entry struct {
	Question string
	Answer   domain.StructuredAnswer
}

// Transcript displays answered questions newest last and scrolls by entry.
type Transcript struct {
	entries []Entry
	offset  int // entries hidden below the visible window
	styles  *styles.Styles
	width   int
	height  int
}

// New creates an empty transcript.
func New(s *styles.Styles) *Transcript {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Transcript{styles: s, width: 80, height: 10}
}

// Append adds an entry and scrolls to it.
func (t *Transcript) Append(e Entry) {
	t.entries = append(t.entries, e)
	t.offset = 0
}

// View renders as many of the newest entries as fit.
func (t *Transcript) View() string {
	if len(t.entries) == 0 {
		return t.styles.Muted.Render("Sin preguntas todavía.")
	}

	end := len(t.entries) - t.offset
	blocks := make([]string, 0, end)
	used := 0
	for i := end - 1; i >= 0; i-- {
		block := t.renderEntry(&t.entries[i])
		lines := strings.Count(block, "\n") + 2
		if used > 0 && used+lines > t.height {
			break
		}
		used += lines
		blocks = append(blocks, block)
	}

	// collected newest first
	for i, j := 0, len(blocks)-1; i < j; i, j = i+1, j-1 {
		blocks[i], blocks[j] = blocks[j], blocks[i]
	}
	return strings.Join(blocks, "\n\n")
}

func (t *Transcript) renderEntry(e *Entry) string {
	question := t.styles.Question.Render("> " + e.Question)
	answer := t.styles.Answer.Width(t.width - 2).Render(e.Answer.Respuesta)

	ref := e.Answer.DocumentoReferencia
	if ref == "" {
		ref = domain.NotAvailable
	}
	page := e.Answer.PaginaReferencia
	if page == "" {
		page = domain.NotAvailable
	}
	reference := t.styles.Reference.Render(ref + ", p. " + page)

	return question + "\n" + answer + "\n" + reference
}

// ScrollUp shows an older entry.
func (t *Transcript) ScrollUp() {
	if t.offset < len(t.entries)-1 {
		t.offset++
	}
}

// ScrollDown shows a newer entry.
func (t *Transcript) ScrollDown() {
	if t.offset > 0 {
		t.offset--
	}
}

// Entries returns all entries.
func (t *Transcript) Entries() []Entry {
	return t.entries
}

// Offset returns how many of the newest entries are scrolled out of view.
func (t *Transcript) Offset() int {
	return t.offset
}

// SetDimensions sets the component dimensions.
func (t *Transcript) SetDimensions(width, height int) {
	t.width = width
	t.height = height
}

// Clear removes all entries.
func (t *Transcript) Clear() {
	t.entries = nil
	t.offset = 0
}
