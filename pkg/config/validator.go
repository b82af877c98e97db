package config

import (
	"fmt"
	"net/url"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	if c.LLM.BaseURL == "" {
		errors = append(errors, ValidationError{
			Field:   "llm.base_url",
			Message: "Ollama base URL is required",
		})
	} else if _, err := url.Parse(c.LLM.BaseURL); err != nil {
		errors = append(errors, ValidationError{
			Field:   "llm.base_url",
			Message: "invalid Ollama base URL",
		})
	}

	if c.LLM.MaxTokens < 1 || c.LLM.MaxTokens > 4096 {
		errors = append(errors, ValidationError{
			Field:   "llm.max_tokens",
			Message: "max_tokens must be between 1 and 4096",
		})
	}

	if c.Embedder.Model == "" {
		errors = append(errors, ValidationError{
			Field:   "embedder.model",
			Message: "embedding model is required",
		})
	}

	if c.Embedder.VectorDim < 1 {
		errors = append(errors, ValidationError{
			Field:   "embedder.vector_dim",
			Message: "vector_dim must be positive",
		})
	}

	switch c.Index.Backend {
	case "sqlite":
		if c.Index.Dir == "" {
			errors = append(errors, ValidationError{
				Field:   "index.dir",
				Message: "index directory is required for the sqlite backend",
			})
		}
	case "pgvector":
		if c.Index.URL == "" {
			errors = append(errors, ValidationError{
				Field:   "index.url",
				Message: "connection string is required for the pgvector backend",
			})
		} else if _, err := url.Parse(c.Index.URL); err != nil {
			errors = append(errors, ValidationError{
				Field:   "index.url",
				Message: "invalid database URL",
			})
		}
	default:
		errors = append(errors, ValidationError{
			Field:   "index.backend",
			Message: fmt.Sprintf("unknown backend: %s", c.Index.Backend),
		})
	}

	if c.Index.BatchSize < 1 {
		errors = append(errors, ValidationError{
			Field:   "index.batch_size",
			Message: "batch_size must be positive",
		})
	}

	if c.Retrieval.TopK < 1 {
		errors = append(errors, ValidationError{
			Field:   "retrieval.top_k",
			Message: "top_k must be positive",
		})
	}

	if c.Scraper.RateLimit <= 0 {
		errors = append(errors, ValidationError{
			Field:   "scraper.rate_limit",
			Message: "rate_limit must be positive",
		})
	}

	if c.Scraper.ChunkSize < 1 {
		errors = append(errors, ValidationError{
			Field:   "scraper.chunk_size",
			Message: "chunk_size must be positive",
		})
	}

	if c.Scraper.ChunkOverlap < 0 || c.Scraper.ChunkOverlap >= c.Scraper.ChunkSize {
		errors = append(errors, ValidationError{
			Field:   "scraper.chunk_overlap",
			Message: "chunk_overlap must be non-negative and less than chunk_size",
		})
	}

	return errors
}
