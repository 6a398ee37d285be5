// Package qdrant provides a point store backed by the Qdrant REST API.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.PointStore = (*Store)(nil)

// Default configuration values.
const (
	DefaultBaseURL = domain.DefaultQdrantURL
	DefaultTimeout = 30 * time.Second
)

// Config holds configuration for the Qdrant point store.
type Config struct {
	// BaseURL is the Qdrant REST endpoint (default: http://localhost:6333).
	BaseURL string

	// APIKey is sent in the api-key header when set.
	APIKey string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Store talks to Qdrant over HTTP.
type Store struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewStore creates a Qdrant point store.
func NewStore(cfg Config) *Store {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Store{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
	}
}

// --- Qdrant API payloads ---

type vectorParams struct {
	Size     int    `json:"size"`
	Distance string `json:"distance"`
}

type createCollectionRequest struct {
	Vectors vectorParams `json:"vectors"`
}

type collectionResponse struct {
	Result struct {
		PointsCount int `json:"points_count"`
		Config      struct {
			Params struct {
				Vectors vectorParams `json:"vectors"`
			} `json:"params"`
		} `json:"config"`
	} `json:"result"`
	Status any `json:"status"`
}

type point struct {
	ID      string         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload"`
}

type upsertRequest struct {
	Points []point `json:"points"`
}

type fieldMatch struct {
	Value any `json:"value"`
}

type fieldCondition struct {
	Key   string     `json:"key"`
	Match fieldMatch `json:"match"`
}

type filter struct {
	Must []fieldCondition `json:"must"`
}

type searchRequest struct {
	Vector      []float32 `json:"vector"`
	Limit       int       `json:"limit"`
	WithPayload bool      `json:"with_payload"`
	Filter      *filter   `json:"filter,omitempty"`
}

type searchResponse struct {
	Result []struct {
		ID      any            `json:"id"`
		Score   float64        `json:"score"`
		Payload map[string]any `json:"payload"`
	} `json:"result"`
}

// statusError is returned for non-2xx responses.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("qdrant error (status %d): %s", e.code, e.body)
}

// GetCollection describes a collection or returns domain.ErrNotFound.
func (s *Store) GetCollection(ctx context.Context, name string) (*domain.CollectionInfo, error) {
	var resp collectionResponse
	if err := s.do(ctx, http.MethodGet, collectionPath(name, ""), nil, &resp); err != nil {
		if isNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	params := resp.Result.Config.Params.Vectors
	return &domain.CollectionInfo{
		VectorSize:  params.Size,
		Distance:    domain.Distance(params.Distance),
		PointsCount: resp.Result.PointsCount,
	}, nil
}

// CreateCollection creates a collection with the given vector parameters.
func (s *Store) CreateCollection(ctx context.Context, name string, vectorSize int, distance domain.Distance) error {
	req := createCollectionRequest{Vectors: vectorParams{Size: vectorSize, Distance: string(distance)}}
	if err := s.do(ctx, http.MethodPut, collectionPath(name, ""), req, nil); err != nil {
		return fmt.Errorf("creating collection %s: %w", name, err)
	}
	return nil
}

// DeleteCollection removes a collection. A missing collection is not an error.
func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	err := s.do(ctx, http.MethodDelete, collectionPath(name, ""), nil, nil)
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("deleting collection %s: %w", name, err)
	}
	return nil
}

// Upsert writes all points in one request and waits for them to be applied.
func (s *Store) Upsert(ctx context.Context, name string, points []domain.IndexedPoint) error {
	req := upsertRequest{Points: make([]point, 0, len(points))}
	for _, p := range points {
		req.Points = append(req.Points, point{ID: p.ID, Vector: p.Vector, Payload: p.Payload})
	}
	if err := s.do(ctx, http.MethodPut, collectionPath(name, "/points?wait=true"), req, nil); err != nil {
		return fmt.Errorf("upserting %d points: %w", len(points), err)
	}
	return nil
}

// Search runs a filtered nearest-neighbour query.
// A missing collection returns domain.ErrNotFound.
func (s *Store) Search(
	ctx context.Context,
	name string,
	vector []float32,
	limit int,
	f domain.SearchFilter,
) ([]domain.ScoredPoint, error) {
	if limit <= 0 {
		return []domain.ScoredPoint{}, nil
	}

	req := searchRequest{
		Vector:      vector,
		Limit:       limit,
		WithPayload: true,
		Filter:      mustMatch(f),
	}
	var resp searchResponse
	if err := s.do(ctx, http.MethodPost, collectionPath(name, "/points/search"), req, &resp); err != nil {
		if isNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	hits := make([]domain.ScoredPoint, 0, len(resp.Result))
	for _, r := range resp.Result {
		hits = append(hits, domain.ScoredPoint{
			ID:      fmt.Sprint(r.ID),
			Score:   r.Score,
			Payload: r.Payload,
		})
	}
	return hits, nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}

func isNotFound(err error) bool {
	var se *statusError
	return errors.As(err, &se) && se.code == http.StatusNotFound
}

func collectionPath(name, suffix string) string {
	return "/collections/" + url.PathEscape(name) + suffix
}

// mustMatch turns the filter into a conjunction of keyword matches, or nil.
func mustMatch(f domain.SearchFilter) *filter {
	conds := f.Conditions()
	if len(conds) == 0 {
		return nil
	}
	keys := make([]string, 0, len(conds))
	for k := range conds {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := &filter{Must: make([]fieldCondition, 0, len(keys))}
	for _, k := range keys {
		out.Must = append(out.Must, fieldCondition{Key: k, Match: fieldMatch{Value: conds[k]}})
	}
	return out
}

func (s *Store) do(ctx context.Context, method, path string, body, dest any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrVectorStoreUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(data))}
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
