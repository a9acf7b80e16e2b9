package domain

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
)

// Document is a single ingested source: a PDF, a web page or a plain
// text file. Content is the extracted text and does not change after
// loading.
type Document struct {
	ID      string
	Source  string
	Kind    string
	Content string
}

// NewDocument builds a Document with an ID derived from the source locator.
func NewDocument(source, kind, content string) Document {
	return Document{ID: hashString(source), Source: source, Kind: kind, Content: content}
}

// Chunk is a contiguous span of a document's text used as the unit of
// retrieval. Start and End are rune offsets into the document content;
// Index is the chunk's position within the document's chunk sequence.
type Chunk struct {
	DocumentID string
	Source     string
	Text       string
	Start      int
	End        int
	Index      int
}

// EmbeddedChunk pairs a chunk with its embedding vector.
type EmbeddedChunk struct {
	Chunk  Chunk
	Vector []float64
}

// SearchResult represents a matching chunk with a similarity score.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// Chunks extracts the chunk sequence from a result list, preserving order.
func Chunks(results []SearchResult) []Chunk {
	out := make([]Chunk, 0, len(results))
	for _, r := range results {
		out = append(out, r.Chunk)
	}
	return out
}

// Embedder converts free text into a numeric vector representation.
// All vectors produced by one embedder share the same dimension.
// Implementations report failures wrapped in ErrEmbeddingFailure.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Chunker splits documents into chunks suitable for retrieval indexing.
type Chunker interface {
	Chunk(document Document) ([]Chunk, error)
}

// Loader fetches a source locator and extracts its text.
// Failures are wrapped in ErrSourceUnavailable.
type Loader interface {
	Load(ctx context.Context, locator string) (Document, error)
}

// Synthesizer produces a natural-language answer for a query from the
// retrieved context chunks.
type Synthesizer interface {
	Synthesize(ctx context.Context, query string, contextChunks []Chunk) (string, error)
}

// Retriever defines the operations exposed by the application core.
type Retriever interface {
	Ingest(ctx context.Context, document Document) (int, error)
	Query(ctx context.Context, query string, topK int) ([]SearchResult, error)
	Ask(ctx context.Context, query string, topK int) (string, []SearchResult, error)
}

func hashString(s string) string {
	h := sha1.Sum([]byte(s))
	return hex.EncodeToString(h[:8])
}
