package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoDocumentsAnswer(t *testing.T) {
	a := NoDocumentsAnswer()

	assert.Equal(t, "No se encontraron documentos relevantes.", a.Respuesta)
	assert.Equal(t, NotAvailable, a.DocumentoReferencia)
	assert.Equal(t, NotAvailable, a.PaginaReferencia)
}

func TestGenerationErrorAnswer(t *testing.T) {
	a := GenerationErrorAnswer()

	assert.Equal(t, "Error generating response.", a.Respuesta)
	assert.Equal(t, NotAvailable, a.DocumentoReferencia)
	assert.Equal(t, NotAvailable, a.PaginaReferencia)
}

func TestAnswerFromMap(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]any
		want StructuredAnswer
	}{
		{
			name: "all keys",
			in: map[string]any{
				"respuesta":            "X",
				"documento_referencia": "doc.pdf",
				"pagina_referencia":    "3",
			},
			want: StructuredAnswer{"X", "doc.pdf", "3"},
		},
		{
			name: "missing page",
			in:   map[string]any{"respuesta": "X", "documento_referencia": "doc.pdf"},
			want: StructuredAnswer{"X", "doc.pdf", NotAvailable},
		},
		{
			name: "numeric page",
			in:   map[string]any{"respuesta": "X", "pagina_referencia": float64(4)},
			want: StructuredAnswer{"X", NotAvailable, "4"},
		},
		{
			name: "null and empty values",
			in:   map[string]any{"respuesta": nil, "documento_referencia": ""},
			want: StructuredAnswer{NotAvailable, NotAvailable, NotAvailable},
		},
		{
			name: "nested values as JSON",
			in: map[string]any{
				"respuesta":         map[string]any{"a": float64(1), "b": []any{float64(1), float64(2)}},
				"pagina_referencia": []any{float64(3), float64(4)},
			},
			want: StructuredAnswer{`{"a":1,"b":[1,2]}`, NotAvailable, "[3,4]"},
		},
		{
			name: "extra keys dropped",
			in:   map[string]any{"respuesta": "X", "confidence": 0.9},
			want: StructuredAnswer{"X", NotAvailable, NotAvailable},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AnswerFromMap(tt.in))
		})
	}
}

func TestStructuredAnswer_AlwaysHasThreeKeys(t *testing.T) {
	data, err := json.Marshal(NewAnswer("hola"))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Len(t, decoded, 3)
	assert.Contains(t, decoded, "respuesta")
	assert.Contains(t, decoded, "documento_referencia")
	assert.Contains(t, decoded, "pagina_referencia")
}
