package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Well-known metadata keys.
const (
	// MetaSource is the filename the document was loaded from.
	MetaSource = "source"

	// MetaPage is the page number within the source file.
	MetaPage = "page"

	// MetaRegion is the region name derived from the content.
	MetaRegion = "region"

	// MetaChunkIndex is the position of the document in its file's output.
	MetaChunkIndex = "chunk_index"

	// MetaComuna is an optional commune name used for filtering.
	MetaComuna = "comuna"

	// MetaScore is the similarity score added to query results.
	MetaScore = "score"

	// PayloadText is the payload key holding the chunk text.
	PayloadText = "text"
)

// Metadata is an open set of key-value pairs attached to documents and chunks.
// The schema is not closed: any key set by a loader is persisted verbatim.
type Metadata map[string]any

// Clone returns a shallow copy. A nil map clones to an empty one.
func (m Metadata) Clone() Metadata {
	dst := make(Metadata, len(m))
	for k, v := range m {
		dst[k] = v
	}
	return dst
}

// Has reports whether key is present.
func (m Metadata) Has(key string) bool {
	_, ok := m[key]
	return ok
}

// String returns the value for key rendered as a string, or "" when absent.
func (m Metadata) String(key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	return Stringify(v)
}

// Int returns the value for key as an int.
// Numbers decoded from JSON arrive as float64 and are truncated.
func (m Metadata) Int(key string) (int, bool) {
	switch v := m[key].(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float32:
		return int(v), true
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(v)
		return n, err == nil
	default:
		return 0, false
	}
}

// Stringify renders a metadata or JSON value as text.
// Objects and arrays are rendered as compact JSON.
func Stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case map[string]any, []any:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(t); err != nil {
			return fmt.Sprint(t)
		}
		return string(bytes.TrimRight(buf.Bytes(), "\n"))
	default:
		return fmt.Sprint(t)
	}
}

// Document is the unit produced by a normaliser for one file.
// PDFs yield one Document per physical page.
type Document struct {
	// Content is the normalised text.
	Content string

	// Metadata carries provenance (source, page, region, chunk_index).
	Metadata Metadata
}

// Chunk is a Document split to fit embedding and context limits.
// Each Chunk owns its own Metadata copy.
type Chunk struct {
	// Content is the text content of this chunk.
	Content string

	// Metadata is inherited from the parent Document.
	Metadata Metadata
}
