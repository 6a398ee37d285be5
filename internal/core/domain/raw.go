package domain

import (
	"path/filepath"
	"strings"
)

// RawDocument is an unprocessed file read from the documents directory.
// It is the normaliser's input.
type RawDocument struct {
	// Filename is the base name, used as the document source.
	Filename string

	// Path is the full path of the file.
	Path string

	// Content is the raw bytes.
	Content []byte
}

// Extension returns the lowercase file extension including the dot.
func (r *RawDocument) Extension() string {
	return strings.ToLower(filepath.Ext(r.Filename))
}
