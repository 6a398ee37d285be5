package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/docrag/internal/core/domain"
)

const promptHeader = "You are a helpful assistant. Answer ONLY with information from the context below. Always answer in Spanish."

const promptInstructions = `Instructions:
1) Answer concisely in Spanish, combining the relevant information from ALL context fragments into a single "respuesta".
2) Return ONLY a JSON object with exactly these keys: "respuesta", "documento_referencia", "pagina_referencia".
3) If information is missing, use 'N/A'.`

// BuildPrompt assembles the grounded prompt for a question.
func BuildPrompt(question string, results []domain.QueryResult) string {
	var b strings.Builder
	b.WriteString(promptHeader)
	b.WriteString("\n\nContext:\n")
	b.WriteString(FormatContext(results))
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\n\n")
	b.WriteString(promptInstructions)
	b.WriteString("\n\nJSON:\n")
	return b.String()
}

// FormatContext renders results as numbered fragments separated by a blank line.
func FormatContext(results []domain.QueryResult) string {
	parts := make([]string, 0, len(results))
	for i, r := range results {
		md := domain.Metadata(r.Metadata)
		source := md.String(domain.MetaSource)
		if source == "" {
			source = domain.NotAvailable
		}
		page := md.String(domain.MetaPage)
		if page == "" {
			page = domain.NotAvailable
		}
		parts = append(parts, fmt.Sprintf("[%d] %s (page %s):\n%s", i+1, source, page, r.Text))
	}
	return strings.Join(parts, "\n\n")
}
