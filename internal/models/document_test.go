package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nairod97425/Rag/internal/models"
)

func TestNewAnswerRecord(t *testing.T) {
	units := []models.ScoredUnit{
		{
			IndexedUnit: models.IndexedUnit{
				Text: "first", Source: "http://a", Title: "A", ChunkID: "1",
			},
			Score: 0.9,
		},
		{
			IndexedUnit: models.IndexedUnit{
				Text: "second", Source: "http://b", Title: "B", ChunkID: "0",
			},
			Score: 0.5,
		},
	}

	record := models.NewAnswerRecord("q", "a", units)

	assert.Equal(t, []string{"first", "second"}, record.Contexts)
	require.Len(t, record.SourceDocuments, 2)
	assert.Equal(t, map[string]string{
		"source":   "http://a",
		"title":    "A",
		"chunk_id": "1",
	}, record.SourceDocuments[0].Metadata)
}

func TestAnswerRecordWireFormat(t *testing.T) {
	record := models.NewAnswerRecord("q", "a", []models.ScoredUnit{
		{IndexedUnit: models.IndexedUnit{Text: "t", Source: "s", Title: "T", ChunkID: "0"}},
	})

	data, err := json.Marshal(record)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	// Field names are a contract with the UI and the evaluation harness.
	assert.Contains(t, decoded, "question")
	assert.Contains(t, decoded, "answer")
	assert.Contains(t, decoded, "contexts")
	assert.Contains(t, decoded, "source_documents")

	docs := decoded["source_documents"].([]any)
	meta := docs[0].(map[string]any)["metadata"].(map[string]any)
	assert.Equal(t, "s", meta["source"])
	assert.Equal(t, "T", meta["title"])
	assert.Equal(t, "0", meta["chunk_id"])
}
