package domain

import "strings"

// UnknownRegion is the region assigned when no lexicon entry matches.
const UnknownRegion = "Unknown"

// RegionLexicon is the ordered list of known region names.
// It is loaded once at start-up and never mutated.
type RegionLexicon struct {
	names []string
	lower []string
}

// NewRegionLexicon builds a lexicon preserving the given order.
// Blank names are ignored.
func NewRegionLexicon(names []string) RegionLexicon {
	lx := RegionLexicon{
		names: make([]string, 0, len(names)),
		lower: make([]string, 0, len(names)),
	}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		lx.names = append(lx.names, n)
		lx.lower = append(lx.lower, strings.ToLower(n))
	}
	return lx
}

// Names returns a copy of the region names in lexicon order.
func (lx RegionLexicon) Names() []string {
	out := make([]string, len(lx.names))
	copy(out, lx.names)
	return out
}

// Len returns the number of regions.
func (lx RegionLexicon) Len() int {
	return len(lx.names)
}

// Match returns the first region, in lexicon order, occurring in content
// case-insensitively, or UnknownRegion.
func (lx RegionLexicon) Match(content string) string {
	text := strings.ToLower(content)
	for i, name := range lx.lower {
		if strings.Contains(text, name) {
			return lx.names[i]
		}
	}
	return UnknownRegion
}
