package domain

import "math"

// Distance is the similarity metric of a collection.
type Distance string

// DistanceCosine is the only metric collections are created with.
const DistanceCosine Distance = "Cosine"

// IndexedPoint is the persisted unit in a vector store collection.
type IndexedPoint struct {
	// ID is a UUID string.
	ID string

	// Vector is the chunk embedding.
	Vector []float32

	// Payload holds "text" plus every chunk metadata key.
	Payload map[string]any
}

// ScoredPoint is a point returned by a nearest-neighbour search.
type ScoredPoint struct {
	ID      string
	Score   float64
	Payload map[string]any
}

// SearchFilter restricts a similarity search with equality predicates.
// Empty fields are not applied; set fields must all match.
type SearchFilter struct {
	Region string
	Comuna string
}

// Conditions returns the set predicates as payload key/value pairs.
func (f SearchFilter) Conditions() map[string]string {
	conds := make(map[string]string, 2)
	if f.Region != "" {
		conds[MetaRegion] = f.Region
	}
	if f.Comuna != "" {
		conds[MetaComuna] = f.Comuna
	}
	return conds
}

// IsEmpty reports whether no predicate is set.
func (f SearchFilter) IsEmpty() bool {
	return f.Region == "" && f.Comuna == ""
}

// Matches reports whether payload satisfies every set predicate.
func (f SearchFilter) Matches(payload map[string]any) bool {
	for key, want := range f.Conditions() {
		v, ok := payload[key]
		if !ok || v == nil || Stringify(v) != want {
			return false
		}
	}
	return true
}

// CosineSimilarity returns the cosine of the angle between a and b.
// Mismatched lengths and zero vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// QueryResult is one retrieved chunk: its text and its payload merged
// with the similarity score.
type QueryResult struct {
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata"`
}

// Score returns the similarity score stored in the metadata.
func (r QueryResult) Score() float64 {
	if s, ok := r.Metadata[MetaScore].(float64); ok {
		return s
	}
	return 0
}

// CollectionStats describes a collection. When the collection cannot be
// reached, Exists is false and Error carries the reason.
type CollectionStats struct {
	Exists      bool     `json:"exists"`
	PointsCount int      `json:"points_count,omitempty"`
	VectorSize  int      `json:"vector_size,omitempty"`
	Distance    Distance `json:"distance,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// CollectionInfo is what a point store reports about an existing collection.
type CollectionInfo struct {
	VectorSize  int
	Distance    Distance
	PointsCount int
}
