package rag

import (
	"github.com/Nairod97425/Rag/pkg/config"
	"github.com/Nairod97425/Rag/pkg/llm"
	"github.com/Nairod97425/Rag/pkg/store"
)

// ConfigFrom maps the application config onto the pipeline config. The
// embedder's vector dimension feeds the index schema so build and query
// can never disagree on vector width.
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		Embedder: llm.EmbedderConfig{
			Model:     cfg.Embedder.Model,
			BaseURL:   cfg.Embedder.BaseURL,
			VectorDim: cfg.Embedder.VectorDim,
		},
		Chat: llm.ChatConfig{
			Model:     cfg.LLM.Model,
			MaxTokens: cfg.LLM.MaxTokens,
			BaseURL:   cfg.LLM.BaseURL,
		},
		Index: store.Config{
			Backend:    cfg.Index.Backend,
			Dir:        cfg.Index.Dir,
			ConnString: cfg.Index.URL,
			TableName:  cfg.Index.TableName,
			VectorDim:  cfg.Embedder.VectorDim,
			BatchSize:  cfg.Index.BatchSize,
		},
		TopK: cfg.Retrieval.TopK,
	}
}
