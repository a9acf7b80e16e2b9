package vectorstore

import "docrag/internal/domain"

// Storage holds embedded chunks and answers nearest-neighbor queries.
// Entries live until Clear; there is no partial deletion.
type Storage interface {
	Add(entries []domain.EmbeddedChunk) error
	Search(vector []float64, topK int) ([]domain.SearchResult, error)
	Len() int
	Dimension() int
	Clear()
}
