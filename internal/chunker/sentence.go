package chunker

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"docrag/internal/domain"
)

// SentenceChunker splits text into sentence-based chunks with overlap.
// It is the semantically aware alternative to FixedChunker; offsets span
// from the first to the last sentence included in the chunk.
type SentenceChunker struct {
	sentencesPerChunk int
	overlapSentences  int
	splitter          *regexp.Regexp
}

func NewSentenceChunker(sentencesPerChunk, overlapSentences int) *SentenceChunker {
	if sentencesPerChunk <= 0 {
		sentencesPerChunk = 5
	}
	if overlapSentences < 0 {
		overlapSentences = 0
	}
	if overlapSentences >= sentencesPerChunk {
		overlapSentences = sentencesPerChunk - 1
	}
	return &SentenceChunker{
		sentencesPerChunk: sentencesPerChunk,
		overlapSentences:  overlapSentences,
		splitter:          regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`),
	}
}

type sentence struct {
	text  string
	start int // rune offset
	end   int
}

func (c *SentenceChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	sentences := c.split(document.Content)
	if len(sentences) == 0 {
		trimmed := strings.TrimSpace(document.Content)
		if trimmed == "" {
			return nil, nil
		}
		sentences = []sentence{{text: trimmed, start: 0, end: utf8.RuneCountInString(document.Content)}}
	}
	var chunks []domain.Chunk
	i := 0
	idx := 0
	for i < len(sentences) {
		end := i + c.sentencesPerChunk
		if end > len(sentences) {
			end = len(sentences)
		}
		parts := make([]string, 0, end-i)
		for _, s := range sentences[i:end] {
			parts = append(parts, s.text)
		}
		chunks = append(chunks, domain.Chunk{
			DocumentID: document.ID,
			Source:     document.Source,
			Text:       strings.Join(parts, " "),
			Start:      sentences[i].start,
			End:        sentences[end-1].end,
			Index:      idx,
		})
		if end == len(sentences) {
			break
		}
		i = end - c.overlapSentences
		idx++
	}
	return chunks, nil
}

func (c *SentenceChunker) split(content string) []sentence {
	spans := c.splitter.FindAllStringIndex(content, -1)
	out := make([]sentence, 0, len(spans))
	for _, span := range spans {
		text := strings.TrimSpace(content[span[0]:span[1]])
		if text == "" {
			continue
		}
		out = append(out, sentence{
			text:  text,
			start: utf8.RuneCountInString(content[:span[0]]),
			end:   utf8.RuneCountInString(content[:span[1]]),
		})
	}
	return out
}
