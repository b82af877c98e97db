package retriever

import (
	"context"
	"fmt"

	"github.com/Nairod97425/Rag/internal/models"
	"github.com/Nairod97425/Rag/internal/types"
)

// DefaultK is the number of units retrieved per question.
const DefaultK = 4

// Retriever embeds a question with the same provider used at index-build
// time and returns the nearest indexed units. It holds no state across
// calls; results are a pure function of the question and the index.
type Retriever struct {
	embedder types.Embedder
	index    types.Index
	k        int
}

// New creates a Retriever over an open index. k values below 1 fall back
// to DefaultK.
func New(embedder types.Embedder, index types.Index, k int) *Retriever {
	if k < 1 {
		k = DefaultK
	}
	return &Retriever{embedder: embedder, index: index, k: k}
}

// Retrieve returns up to k units ordered by descending similarity.
func (r *Retriever) Retrieve(ctx context.Context, question string) ([]models.ScoredUnit, error) {
	vector, err := r.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}
	units, err := r.index.Search(ctx, vector, r.k)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}
	return units, nil
}
