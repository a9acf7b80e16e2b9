package synth

import (
	"context"
	"fmt"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"docrag/internal/domain"
)

const answerSystemPrompt = `You answer questions using only the provided context.
If the context does not contain the answer, say you don't know.
Cite nothing outside the context.`

// OpenAIConfig configures the chat-completion answer synthesizer.
type OpenAIConfig struct {
	APIKeyEnv string
	Model     string
}

// OpenAI produces answers with a chat completion grounded in the
// retrieved chunks.
type OpenAI struct {
	client *openai.Client
	model  string
}

func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "OPENAI_API_KEY"
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("%w: missing API key in env %s", domain.ErrInvalidConfiguration, cfg.APIKeyEnv)
	}
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	return &OpenAI{client: openai.NewClient(key), model: cfg.Model}, nil
}

func (s *OpenAI) Synthesize(ctx context.Context, query string, contextChunks []domain.Chunk) (string, error) {
	if len(contextChunks) == 0 {
		return "", nil
	}
	var sb strings.Builder
	for i, ch := range contextChunks {
		fmt.Fprintf(&sb, "[%d] (%s)\n%s\n\n", i+1, ch.Source, ch.Text)
	}
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: answerSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Context:\n\n%sQuestion: %s", sb.String(), query)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("answer synthesis: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("answer synthesis: no choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
