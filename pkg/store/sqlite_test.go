package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nairod97425/Rag/internal/models"
	"github.com/Nairod97425/Rag/pkg/store"
)

// fakeEmbedder returns canned vectors per text so similarity ordering is
// fully controlled by the test.
type fakeEmbedder struct {
	vectors map[string][]float32
	fail    bool
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vecs, err := f.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (f *fakeEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if f.fail {
		return nil, errors.New("embedding endpoint unreachable")
	}
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		v, ok := f.vectors[text]
		if !ok {
			v = []float32{0.1, 0.1, 0.1}
		}
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeEmbedder) Dimension() int { return 3 }

func testUnits() []models.IndexedUnit {
	return []models.IndexedUnit{
		{Text: "Diabetes type 2 causes...", Source: "http://a", Title: "A", ChunkID: "1"},
		{Text: "Insulin regulates glucose.", Source: "http://b", Title: "B", ChunkID: "0"},
		{Text: "Unrelated cooking recipe.", Source: "http://c", Title: "C", ChunkID: "0"},
	}
}

func testEmbedder() *fakeEmbedder {
	return &fakeEmbedder{vectors: map[string][]float32{
		"Diabetes type 2 causes...":  {1, 0, 0},
		"Insulin regulates glucose.": {0.8, 0.6, 0},
		"Unrelated cooking recipe.":  {0, 0, 1},
	}}
}

func testConfig(t *testing.T) store.Config {
	return store.Config{
		Backend:   store.BackendSQLite,
		Dir:       t.TempDir() + "/index",
		VectorDim: 3,
	}
}

func TestBuildAndSearch(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	idx, err := store.Build(ctx, cfg, testEmbedder(), testUnits(), nil)
	require.NoError(t, err)
	defer idx.Close()

	results, err := idx.Search(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Ordered by descending similarity to the query vector.
	assert.Equal(t, "Diabetes type 2 causes...", results[0].Text)
	assert.Equal(t, "Insulin regulates glucose.", results[1].Text)
	assert.Greater(t, results[0].Score, results[1].Score)

	// Provenance survives the round trip.
	assert.Equal(t, "http://a", results[0].Source)
	assert.Equal(t, "A", results[0].Title)
	assert.Equal(t, "1", results[0].ChunkID)
}

func TestPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	query := []float32{0.9, 0.1, 0}

	idx, err := store.Build(ctx, cfg, testEmbedder(), testUnits(), nil)
	require.NoError(t, err)

	fresh, err := idx.Search(ctx, query, 4)
	require.NoError(t, err)
	require.NoError(t, idx.Close())

	reopened, err := store.Open(ctx, cfg)
	require.NoError(t, err)
	defer reopened.Close()

	again, err := reopened.Search(ctx, query, 4)
	require.NoError(t, err)
	assert.Equal(t, fresh, again)
}

func TestOpenMissingIndex(t *testing.T) {
	_, err := store.Open(context.Background(), testConfig(t))
	assert.ErrorIs(t, err, store.ErrIndexNotFound)
}

func TestExists(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	assert.False(t, store.Exists(ctx, cfg))

	idx, err := store.Build(ctx, cfg, testEmbedder(), testUnits(), nil)
	require.NoError(t, err)
	idx.Close()

	assert.True(t, store.Exists(ctx, cfg))

	require.NoError(t, store.Destroy(ctx, cfg))
	assert.False(t, store.Exists(ctx, cfg))
}

func TestBuildEmptyCorpus(t *testing.T) {
	_, err := store.Build(context.Background(), testConfig(t), testEmbedder(), nil, nil)
	assert.ErrorIs(t, err, store.ErrIndexBuild)
}

func TestBuildRejectsMissingMetadata(t *testing.T) {
	units := []models.IndexedUnit{{Text: "no source", Title: "T"}}
	_, err := store.Build(context.Background(), testConfig(t), testEmbedder(), units, nil)
	assert.ErrorIs(t, err, store.ErrIndexBuild)
}

func TestBuildAllowsEmptyChunkID(t *testing.T) {
	ctx := context.Background()

	// A corpus id is optional provenance; its absence must not block a
	// build or get rewritten on the way through.
	units := []models.IndexedUnit{
		{Text: "Diabetes type 2 causes...", Source: "http://a", Title: "A"},
	}

	idx, err := store.Build(ctx, testConfig(t), testEmbedder(), units, nil)
	require.NoError(t, err)
	defer idx.Close()

	results, err := idx.Search(ctx, []float32{1, 0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Empty(t, results[0].ChunkID)
}

func TestBuildLeavesNoPartialIndex(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	emb := testEmbedder()
	emb.fail = true

	_, err := store.Build(ctx, cfg, emb, testUnits(), nil)
	require.ErrorIs(t, err, store.ErrIndexBuild)

	// Embedding failed before the first write, so nothing was committed.
	assert.False(t, store.Exists(ctx, cfg))
}

func TestBuildProgress(t *testing.T) {
	cfg := testConfig(t)
	cfg.BatchSize = 2

	var calls [][2]int
	idx, err := store.Build(context.Background(), cfg, testEmbedder(), testUnits(),
		func(done, total int) { calls = append(calls, [2]int{done, total}) })
	require.NoError(t, err)
	defer idx.Close()

	assert.Equal(t, [][2]int{{2, 3}, {3, 3}}, calls)
}

func TestSearchEmptyIndex(t *testing.T) {
	ctx := context.Background()

	idx, err := store.Create(ctx, testConfig(t))
	require.NoError(t, err)
	defer idx.Close()

	results, err := idx.Search(ctx, []float32{1, 0, 0}, 4)
	require.NoError(t, err)
	assert.Empty(t, results)

	n, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCount(t *testing.T) {
	ctx := context.Background()

	idx, err := store.Build(ctx, testConfig(t), testEmbedder(), testUnits(), nil)
	require.NoError(t, err)
	defer idx.Close()

	n, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestUnknownBackend(t *testing.T) {
	_, err := store.Open(context.Background(), store.Config{Backend: "chroma"})
	assert.Error(t, err)
}
