package corpus_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nairod97425/Rag/pkg/corpus"
)

func writeCorpus(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scraped_data.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeCorpus(t, `[
		{
			"url": "http://a",
			"title": "A",
			"chunks": [
				{"id": 1, "text": "Diabetes type 2 causes..."},
				{"id": 2, "text": "Insulin regulates glucose."}
			]
		},
		{
			"url": "http://b",
			"title": "B",
			"chunks": [
				{"id": "b-0", "text": "Glycemia thresholds."}
			]
		}
	]`)

	units, err := corpus.Load(path)
	require.NoError(t, err)
	require.Len(t, units, 3)

	assert.Equal(t, "Diabetes type 2 causes...", units[0].Text)
	assert.Equal(t, "http://a", units[0].Source)
	assert.Equal(t, "A", units[0].Title)
	assert.Equal(t, "1", units[0].ChunkID)

	// String ids pass through untouched.
	assert.Equal(t, "b-0", units[2].ChunkID)
	assert.Equal(t, "http://b", units[2].Source)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := corpus.Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, corpus.ErrNotFound)
}

func TestLoadMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not JSON", "{{{"},
		{"not an array", `{"url": "http://a"}`},
		{"wrong element type", `[42]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCorpus(t, tt.content)
			_, err := corpus.Load(path)
			assert.ErrorIs(t, err, corpus.ErrMalformed)
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeCorpus(t, `[
		{"chunks": [{"id": 0, "text": "orphan chunk"}]}
	]`)

	units, err := corpus.Load(path)
	require.NoError(t, err)
	require.Len(t, units, 1)

	assert.Equal(t, corpus.DefaultSource, units[0].Source)
	assert.Equal(t, corpus.DefaultTitle, units[0].Title)
}

func TestLoadSkipsEmptyEntries(t *testing.T) {
	path := writeCorpus(t, `[
		{"url": "http://empty", "title": "Empty"},
		{"url": "http://blank", "title": "Blank", "chunks": [{"id": 0, "text": ""}]},
		{"url": "http://a", "title": "A", "chunks": [{"id": 0, "text": "real text"}]}
	]`)

	units, err := corpus.Load(path)
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "http://a", units[0].Source)
}

func TestLoadEmptyCorpus(t *testing.T) {
	path := writeCorpus(t, `[]`)

	units, err := corpus.Load(path)
	require.NoError(t, err)
	assert.Empty(t, units)
}
