package embedding

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"docrag/internal/domain"
)

// OpenAIConfig configures the OpenAI-compatible embeddings client.
type OpenAIConfig struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
}

// OpenAIEmbedder produces embeddings through the OpenAI API or any
// endpoint speaking the same protocol.
type OpenAIEmbedder struct {
	client *openai.Client
	model  string

	mu   sync.Mutex
	dim  int
	seen bool // dim confirmed by an actual response
}

func NewOpenAIEmbedder(cfg OpenAIConfig) (*OpenAIEmbedder, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "OPENAI_API_KEY"
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("%w: missing API key in env %s", domain.ErrInvalidConfiguration, cfg.APIKeyEnv)
	}
	if cfg.Model == "" {
		cfg.Model = string(openai.SmallEmbedding3)
	}
	clientCfg := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	dim := 1536 // text-embedding-3-small
	if cfg.Model == string(openai.LargeEmbedding3) {
		dim = 3072
	}
	return &OpenAIEmbedder{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		dim:    dim,
	}, nil
}

func (e *OpenAIEmbedder) Name() string { return "openai" }

func (e *OpenAIEmbedder) Dimension() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dim
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: cannot embed empty text", domain.ErrEmbeddingFailure)
	}
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingFailure, err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: no embedding data returned", domain.ErrEmbeddingFailure)
	}
	v32 := resp.Data[0].Embedding
	vec := make([]float64, len(v32))
	for i, v := range v32 {
		vec[i] = float64(v)
	}
	if err := e.observe(len(vec)); err != nil {
		return nil, err
	}
	return vec, nil
}

// observe records the dimension reported by the endpoint. The first
// response wins, the configured model default is only a hint; a later
// response of a different length means the upstream changed under us.
func (e *OpenAIEmbedder) observe(n int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.seen {
		e.dim = n
		e.seen = true
		return nil
	}
	if e.dim != n {
		return fmt.Errorf("%w: embedder returned a vector of length %d after establishing dimension %d", domain.ErrDimensionMismatch, n, e.dim)
	}
	return nil
}
