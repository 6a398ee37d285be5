package domain

// NotAvailable is the sentinel used for any answer field the model could not determine.
const NotAvailable = "N/A"

// Fixed answer texts.
const (
	NoDocumentsMessage     = "No se encontraron documentos relevantes."
	GenerationErrorMessage = "Error generating response."
)

// Answer keys, also the JSON field names of StructuredAnswer.
const (
	KeyRespuesta           = "respuesta"
	KeyDocumentoReferencia = "documento_referencia"
	KeyPaginaReferencia    = "pagina_referencia"
)

// StructuredAnswer is the wire contract returned for every query.
// All three fields are always present; missing information is "N/A".
type StructuredAnswer struct {
	Respuesta           string `json:"respuesta"`
	DocumentoReferencia string `json:"documento_referencia"`
	PaginaReferencia    string `json:"pagina_referencia"`
}

// NewAnswer returns an answer with the given text and N/A references.
func NewAnswer(respuesta string) StructuredAnswer {
	return StructuredAnswer{
		Respuesta:           respuesta,
		DocumentoReferencia: NotAvailable,
		PaginaReferencia:    NotAvailable,
	}
}

// NoDocumentsAnswer is returned when retrieval finds nothing.
func NoDocumentsAnswer() StructuredAnswer {
	return NewAnswer(NoDocumentsMessage)
}

// GenerationErrorAnswer is returned when the model invocation fails.
func GenerationErrorAnswer() StructuredAnswer {
	return NewAnswer(GenerationErrorMessage)
}

// AnswerFromMap keeps exactly the three canonical keys of a decoded JSON
// object. Absent, null or empty values become "N/A"; other values are
// rendered as text.
func AnswerFromMap(m map[string]any) StructuredAnswer {
	field := func(key string) string {
		v, ok := m[key]
		if !ok || v == nil {
			return NotAvailable
		}
		s := Stringify(v)
		if s == "" {
			return NotAvailable
		}
		return s
	}
	return StructuredAnswer{
		Respuesta:           field(KeyRespuesta),
		DocumentoReferencia: field(KeyDocumentoReferencia),
		PaginaReferencia:    field(KeyPaginaReferencia),
	}
}
