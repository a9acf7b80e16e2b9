package memory

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"docrag/internal/domain"
)

// Store is an in-memory vector index using exhaustive linear-scan cosine
// similarity. The right design point for single documents and small
// sites; an ANN structure can replace it behind the same interface.
type Store struct {
	mu        sync.RWMutex
	dimension int
	entries   []domain.EmbeddedChunk
}

func NewStore() *Store { return &Store{} }

// Add appends entries without deduplication. The dimension of the first
// vector ever added becomes the index dimension; any entry with a
// different length is rejected before anything is mutated.
func (s *Store) Add(entries []domain.EmbeddedChunk) error {
	if len(entries) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	dim := s.dimension
	if dim == 0 {
		dim = len(entries[0].Vector)
		if dim == 0 {
			return fmt.Errorf("%w: zero-length vector", domain.ErrDimensionMismatch)
		}
	}
	for _, e := range entries {
		if len(e.Vector) != dim {
			return fmt.Errorf("%w: got vector of length %d, index dimension is %d", domain.ErrDimensionMismatch, len(e.Vector), dim)
		}
	}
	s.dimension = dim
	s.entries = append(s.entries, entries...)
	return nil
}

// Search ranks all stored entries by cosine similarity against the query
// vector, descending, ties broken by insertion order. Returns at most
// topK results and never more than the number of stored entries.
func (s *Store) Search(vector []float64, topK int) ([]domain.SearchResult, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: top-k must be positive, got %d", domain.ErrInvalidConfiguration, topK)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dimension != 0 && len(vector) != s.dimension {
		return nil, fmt.Errorf("%w: query vector has length %d, index dimension is %d", domain.ErrDimensionMismatch, len(vector), s.dimension)
	}
	results := make([]domain.SearchResult, 0, len(s.entries))
	for _, e := range s.entries {
		results = append(results, domain.SearchResult{Chunk: e.Chunk, Score: cosine(vector, e.Vector)})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK], nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) Dimension() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dimension
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.dimension = 0
}

// cosine is the dot product divided by the product of magnitudes.
// A zero-magnitude vector scores 0 against everything.
func cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
