package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms/ollama"
)

// ErrEmbeddingUnavailable is returned when the embedding endpoint cannot
// be reached. It is surfaced, never retried here: silent partial indexing
// would corrupt the corpus-to-index mapping.
var ErrEmbeddingUnavailable = errors.New("embedding model unavailable")

// EmbedderConfig configures the Ollama embedding model.
type EmbedderConfig struct {
	Model     string
	BaseURL   string // Ollama server URL
	VectorDim int
}

// Embedder turns text into fixed-dimension vectors via a local Ollama
// model. The same model must serve both index builds and queries.
type Embedder struct {
	config EmbedderConfig
	llm    *ollama.LLM
}

// NewEmbedderWithConfig creates an Embedder, applying defaults for unset
// fields. The default model is nomic-embed-text (768 dimensions).
func NewEmbedderWithConfig(config EmbedderConfig) (*Embedder, error) {
	if config.Model == "" {
		config.Model = "nomic-embed-text:latest"
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}
	if config.VectorDim == 0 {
		config.VectorDim = 768
	}

	emb, err := ollama.New(
		ollama.WithModel(config.Model),
		ollama.WithServerURL(config.BaseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedding model: %w", err)
	}

	return &Embedder{config: config, llm: emb}, nil
}

// EmbedQuery embeds a single query string.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedDocuments embeds a batch of texts, returning one vector per input
// in the same order.
func (e *Embedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := e.llm.CreateEmbedding(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts",
			ErrEmbeddingUnavailable, len(vectors), len(texts))
	}
	return vectors, nil
}

// Dimension reports the vector width produced by the configured model.
func (e *Embedder) Dimension() int {
	return e.config.VectorDim
}
