package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"docrag/internal/domain"
	"docrag/internal/vectorstore"
)

// Options tunes the retriever. Everything is explicit; there is no
// ambient global state.
type Options struct {
	TopK             int // default result count for Ask
	EmbedConcurrency int // concurrent embedder calls per ingest
}

// Retriever orchestrates chunking, embedding and indexing at ingestion
// time, and query embedding plus nearest-neighbor lookup at query time.
type Retriever struct {
	chunker  domain.Chunker
	embedder domain.Embedder
	store    vectorstore.Storage
	synth    domain.Synthesizer
	opts     Options

	ingestMu sync.Mutex // single writer at a time; reads go lock-free to the store
}

func NewRetriever(chunker domain.Chunker, embedder domain.Embedder, store vectorstore.Storage, synth domain.Synthesizer, opts Options) *Retriever {
	if opts.TopK <= 0 {
		opts.TopK = 5
	}
	if opts.EmbedConcurrency <= 0 {
		opts.EmbedConcurrency = 4
	}
	return &Retriever{chunker: chunker, embedder: embedder, store: store, synth: synth, opts: opts}
}

// Stats describes current index state.
type Stats struct {
	Chunks    int
	Dimension int
	Embedder  string
}

func (r *Retriever) Stats() Stats {
	return Stats{Chunks: r.store.Len(), Dimension: r.store.Dimension(), Embedder: r.embedder.Name()}
}

// Ingest chunks the document, embeds every chunk and adds the results to
// the index. Embedding is best-effort, not atomic: when the embedder
// fails on a chunk, the chunks embedded before it stay indexed and the
// error is returned together with the number of chunks that made it in.
func (r *Retriever) Ingest(ctx context.Context, document domain.Document) (int, error) {
	r.ingestMu.Lock()
	defer r.ingestMu.Unlock()

	chunks, err := r.chunker.Chunk(document)
	if err != nil {
		return 0, err
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	vectors, failedAt, embedErr := r.embedAll(ctx, chunks)
	keep := len(chunks)
	if embedErr != nil {
		keep = failedAt
	}
	entries := make([]domain.EmbeddedChunk, 0, keep)
	for i := 0; i < keep; i++ {
		entries = append(entries, domain.EmbeddedChunk{Chunk: chunks[i], Vector: vectors[i]})
	}
	if err := r.store.Add(entries); err != nil {
		return 0, err
	}
	if embedErr != nil {
		return len(entries), fmt.Errorf("embedding chunk %d of %s: %w", failedAt, document.Source, asEmbeddingFailure(embedErr))
	}
	return len(entries), nil
}

// embedAll fans chunk embedding out over a bounded number of goroutines.
// Vectors land in their chunk's slot by sequence index, so completion
// order does not matter. Returns the earliest failing index, if any.
func (r *Retriever) embedAll(ctx context.Context, chunks []domain.Chunk) ([][]float64, int, error) {
	vectors := make([][]float64, len(chunks))
	sem := make(chan struct{}, r.opts.EmbedConcurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex
	failedAt := -1
	var embedErr error

	for i := range chunks {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			vec, err := r.embedder.Embed(ctx, chunks[i].Text)
			if err != nil {
				mu.Lock()
				if failedAt == -1 || i < failedAt {
					failedAt = i
					embedErr = err
				}
				mu.Unlock()
				return
			}
			vectors[i] = vec
		}(i)
	}
	wg.Wait()
	return vectors, failedAt, embedErr
}

// Query embeds the query text once and delegates to the index.
func (r *Retriever) Query(ctx context.Context, query string, topK int) ([]domain.SearchResult, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: top-k must be positive, got %d", domain.ErrInvalidConfiguration, topK)
	}
	if r.store.Len() == 0 {
		return nil, domain.ErrEmptyIndex
	}
	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, asEmbeddingFailure(err)
	}
	return r.store.Search(vec, topK)
}

// Ask retrieves the top-k chunks for the query and synthesizes an answer
// from them.
func (r *Retriever) Ask(ctx context.Context, query string, topK int) (string, []domain.SearchResult, error) {
	if topK <= 0 {
		topK = r.opts.TopK
	}
	results, err := r.Query(ctx, query, topK)
	if err != nil {
		return "", nil, err
	}
	answer, err := r.synth.Synthesize(ctx, query, domain.Chunks(results))
	if err != nil {
		return "", results, err
	}
	return answer, results, nil
}

// asEmbeddingFailure keeps the taxonomy intact for embedders that return
// raw errors.
func asEmbeddingFailure(err error) error {
	if errors.Is(err, domain.ErrEmbeddingFailure) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrEmbeddingFailure, err)
}
