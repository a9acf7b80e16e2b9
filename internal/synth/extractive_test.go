package synth

import (
	"context"
	"strings"
	"testing"

	"docrag/internal/domain"
)

func TestExtractive_PicksQueryRelevantSentences(t *testing.T) {
	s := NewExtractive(1)
	chunks := []domain.Chunk{
		{Text: "The weather was cloudy yesterday. Vector indexes answer similarity queries. Lunch was served at noon."},
	}
	answer, err := s.Synthesize(context.Background(), "how do vector indexes answer queries", chunks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(answer, "Vector indexes") {
		t.Fatalf("expected the query-relevant sentence, got %q", answer)
	}
}

func TestExtractive_PreservesOriginalOrder(t *testing.T) {
	s := NewExtractive(2)
	chunks := []domain.Chunk{
		{Text: "Chunking splits documents apart. Filler filler filler. Embedding turns chunks into vectors."},
	}
	answer, err := s.Synthesize(context.Background(), "chunking embedding documents vectors", chunks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first := strings.Index(answer, "Chunking")
	second := strings.Index(answer, "Embedding")
	if first == -1 || second == -1 || first > second {
		t.Fatalf("expected sentences in document order, got %q", answer)
	}
}

func TestExtractive_NoChunks(t *testing.T) {
	s := NewExtractive(3)
	answer, err := s.Synthesize(context.Background(), "anything", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "" {
		t.Fatalf("expected empty answer for no context, got %q", answer)
	}
}

func TestExtractive_ChunkWithoutTerminators(t *testing.T) {
	s := NewExtractive(2)
	chunks := []domain.Chunk{{Text: "raw chunk without punctuation"}}
	answer, err := s.Synthesize(context.Background(), "raw chunk", chunks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer == "" {
		t.Fatalf("expected the chunk text to be used as a sentence")
	}
}
