package llm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nairod97425/Rag/pkg/llm"
)

func TestNewWithConfig(t *testing.T) {
	engine, err := llm.NewWithConfig(llm.ChatConfig{
		Model:     "llama3.2",
		MaxTokens: 1000,
		BaseURL:   "http://localhost:11434",
	})
	require.NoError(t, err)
	assert.NotNil(t, engine)
}

func TestNewWithConfigDefaults(t *testing.T) {
	engine, err := llm.NewWithConfig(llm.ChatConfig{})
	require.NoError(t, err)
	assert.NotNil(t, engine)
}

func TestNewWithConfigNegativeMaxTokens(t *testing.T) {
	_, err := llm.NewWithConfig(llm.ChatConfig{MaxTokens: -1})
	assert.Error(t, err)
}

func TestNewEmbedderWithConfig(t *testing.T) {
	emb, err := llm.NewEmbedderWithConfig(llm.EmbedderConfig{
		Model:     "nomic-embed-text:latest",
		BaseURL:   "http://localhost:11434",
		VectorDim: 768,
	})
	require.NoError(t, err)
	assert.Equal(t, 768, emb.Dimension())
}

func TestNewEmbedderDefaults(t *testing.T) {
	emb, err := llm.NewEmbedderWithConfig(llm.EmbedderConfig{})
	require.NoError(t, err)
	// nomic-embed-text produces 768-dimensional vectors.
	assert.Equal(t, 768, emb.Dimension())
}
