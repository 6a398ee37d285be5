package services

import (
	"encoding/json"
	"strings"

	"github.com/custodia-labs/docrag/internal/core/domain"
)

// ParseAnswer normalises raw model output into a StructuredAnswer.
// The first embedded JSON object wins; otherwise the trimmed text
// becomes the answer.
func ParseAnswer(raw string) domain.StructuredAnswer {
	if obj, ok := ExtractJSONObject(raw); ok {
		return domain.AnswerFromMap(obj)
	}
	return domain.NewAnswer(strings.TrimSpace(raw))
}

// ExtractJSONObject returns the first balanced {...} span of s that
// decodes as a JSON object. Braces inside JSON strings are ignored.
func ExtractJSONObject(s string) (map[string]any, bool) {
	for start := strings.IndexByte(s, '{'); start >= 0; {
		if end := matchBrace(s, start); end > 0 {
			var obj map[string]any
			if err := json.Unmarshal([]byte(s[start:end+1]), &obj); err == nil && obj != nil {
				return obj, true
			}
		}
		next := strings.IndexByte(s[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return nil, false
}

// matchBrace returns the index of the brace closing the one at open, or -1.
func matchBrace(s string, open int) int {
	depth := 0
	inString := false
	escaped := false
	for i := open; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
