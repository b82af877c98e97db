package types

import (
	"context"

	"github.com/Nairod97425/Rag/internal/models"
)

// Embedder turns text into fixed-dimension vectors. The same
// implementation and model must be used at index-build time and at query
// time, or retrieval silently degrades.
type Embedder interface {
	// EmbedQuery embeds a single query string.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	// EmbedDocuments embeds a batch of chunk texts, one vector per input.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	// Dimension reports the vector width produced by the model.
	Dimension() int
}

// Index is a persistent nearest-neighbor store over indexed units.
// Implementations are read-only after build; concurrent searches against
// one open index are safe.
type Index interface {
	Add(ctx context.Context, units []models.IndexedUnit, vectors [][]float32) error
	// Search returns up to k units ordered by descending similarity.
	// An empty index yields an empty slice, not an error.
	Search(ctx context.Context, vector []float32, k int) ([]models.ScoredUnit, error)
	Count(ctx context.Context) (int64, error)
	Close() error
}

// Generator sends an assembled prompt to a language model and returns
// its free-text completion. Decoding must be deterministic.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
