package rag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Nairod97425/Rag/pkg/config"
	"github.com/Nairod97425/Rag/pkg/rag"
	"github.com/Nairod97425/Rag/pkg/store"
)

func TestConfigFrom(t *testing.T) {
	cfg := &config.Config{
		LLM: config.LLMConfig{
			BaseURL:   "http://ollama:11434",
			Model:     "llama3.2",
			MaxTokens: 1500,
		},
		Embedder: config.EmbedderConfig{
			BaseURL:   "http://ollama:11434",
			Model:     "nomic-embed-text:latest",
			VectorDim: 768,
		},
		Index: config.IndexConfig{
			Backend:   store.BackendSQLite,
			Dir:       "db_storage_local",
			TableName: "documents",
			BatchSize: 16,
		},
		Retrieval: config.RetrievalConfig{TopK: 4},
	}

	mapped := rag.ConfigFrom(cfg)

	assert.Equal(t, "llama3.2", mapped.Chat.Model)
	assert.Equal(t, 1500, mapped.Chat.MaxTokens)
	assert.Equal(t, "nomic-embed-text:latest", mapped.Embedder.Model)
	assert.Equal(t, store.BackendSQLite, mapped.Index.Backend)
	assert.Equal(t, "db_storage_local", mapped.Index.Dir)
	assert.Equal(t, 16, mapped.Index.BatchSize)
	assert.Equal(t, 4, mapped.TopK)

	// The embedder's dimension feeds the index schema, so build and
	// query can never disagree on vector width.
	assert.Equal(t, cfg.Embedder.VectorDim, mapped.Index.VectorDim)

	// The mapping is pure: callers binding it once or twice must end up
	// with identical index configs.
	assert.Equal(t, mapped, rag.ConfigFrom(cfg))
}
