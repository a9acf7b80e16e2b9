package chunker

import (
	"fmt"

	"docrag/internal/domain"
)

// FixedChunker splits text into fixed-size overlapping chunks measured in
// runes. Boundaries are purely offset based, with no sentence awareness.
type FixedChunker struct {
	size    int
	overlap int
}

// NewFixedChunker validates the size/overlap pair. Overlap must stay below
// the chunk size or the cursor would never advance.
func NewFixedChunker(size, overlap int) (*FixedChunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidConfiguration, size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: overlap must not be negative, got %d", domain.ErrInvalidConfiguration, overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than chunk size %d", domain.ErrInvalidConfiguration, overlap, size)
	}
	return &FixedChunker{size: size, overlap: overlap}, nil
}

// Chunk walks the document left to right, emitting a chunk covering
// [cursor, cursor+size) clipped to the text length and advancing the
// cursor by size-overlap. The final chunk may be shorter; chunking stops
// once a chunk reaches the end of the text.
func (c *FixedChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	runes := []rune(document.Content)
	n := len(runes)
	if n == 0 {
		return nil, nil
	}
	stride := c.size - c.overlap
	var chunks []domain.Chunk
	for start, idx := 0, 0; start < n; start, idx = start+stride, idx+1 {
		end := start + c.size
		if end > n {
			end = n
		}
		chunks = append(chunks, domain.Chunk{
			DocumentID: document.ID,
			Source:     document.Source,
			Text:       string(runes[start:end]),
			Start:      start,
			End:        end,
			Index:      idx,
		})
		if end == n {
			break
		}
	}
	return chunks, nil
}
