package rag

import (
	"context"
	"fmt"
	"sync"

	"github.com/Nairod97425/Rag/internal/models"
	"github.com/Nairod97425/Rag/internal/types"
	"github.com/Nairod97425/Rag/pkg/corpus"
	"github.com/Nairod97425/Rag/pkg/llm"
	"github.com/Nairod97425/Rag/pkg/prompt"
	"github.com/Nairod97425/Rag/pkg/retriever"
	"github.com/Nairod97425/Rag/pkg/store"
)

// Config assembles the full pipeline configuration.
type Config struct {
	Embedder llm.EmbedderConfig
	Chat     llm.ChatConfig
	Index    store.Config
	TopK     int
}

// Engine composes loader, index, retriever, prompt assembler and
// generation client into the two public entry points. The retrieval
// pipeline is built lazily: the first call to either entry point opens
// (never rebuilds) the index at the configured location.
//
// The engine has exactly two states, uninitialized and ready, and
// ensureReady is the only transition between them. Once ready, the index
// is read-only and concurrent questions are safe.
type Engine struct {
	config Config

	mu        sync.Mutex
	ready     bool
	embedder  types.Embedder
	generator types.Generator
	index     types.Index
	retriever *retriever.Retriever
}

// New creates an Engine. No network or disk access happens until the
// first question or an explicit Reindex.
func New(config Config) *Engine {
	return &Engine{config: config}
}

// NewWithComponents creates an Engine with a pre-built embedder and
// generator, keeping the lazy index open. Used by the server and tests.
func NewWithComponents(config Config, embedder types.Embedder, generator types.Generator) *Engine {
	return &Engine{config: config, embedder: embedder, generator: generator}
}

// ensureReady is the single uninitialized-to-ready transition. It is
// idempotent and safe to call from both entry points. It opens an
// existing index; if none exists it fails with store.ErrIndexNotFound
// rather than silently falling back to ungrounded generation.
func (e *Engine) ensureReady(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ready {
		return nil
	}

	if e.embedder == nil {
		embedder, err := llm.NewEmbedderWithConfig(e.config.Embedder)
		if err != nil {
			return fmt.Errorf("initializing embedder: %w", err)
		}
		e.embedder = embedder
	}

	if e.index == nil {
		index, err := store.Open(ctx, e.config.Index)
		if err != nil {
			return fmt.Errorf("opening index: %w", err)
		}
		e.index = index
	}

	if e.generator == nil {
		generator, err := llm.NewWithConfig(e.config.Chat)
		if err != nil {
			return fmt.Errorf("initializing chat engine: %w", err)
		}
		e.generator = generator
	}

	e.retriever = retriever.New(e.embedder, e.index, e.config.TopK)
	e.ready = true
	return nil
}

// answer runs the shared retrieve-assemble-generate pipeline. Both entry
// points go through it so they cannot diverge in what they compute, only
// in what they return.
func (e *Engine) answer(ctx context.Context, question string) (string, []models.ScoredUnit, error) {
	if err := e.ensureReady(ctx); err != nil {
		return "", nil, err
	}

	units, err := e.retriever.Retrieve(ctx, question)
	if err != nil {
		return "", nil, err
	}

	answer, err := e.generator.Generate(ctx, prompt.Assemble(question, units))
	if err != nil {
		return "", nil, err
	}
	return answer, units, nil
}

// Ask answers a question and returns the generated text only.
func (e *Engine) Ask(ctx context.Context, question string) (string, error) {
	answer, _, err := e.answer(ctx, question)
	return answer, err
}

// AskWithContext answers a question and returns the full answer record,
// including raw contexts and source documents for citation display and
// offline evaluation. It computes exactly what Ask computes.
func (e *Engine) AskWithContext(ctx context.Context, question string) (*models.AnswerRecord, error) {
	answer, units, err := e.answer(ctx, question)
	if err != nil {
		return nil, err
	}
	return models.NewAnswerRecord(question, answer, units), nil
}

// Reindex destroys any existing index and rebuilds it from the corpus
// file at corpusPath. The next question reopens the pipeline over the
// fresh index. It must not run while questions are being served.
func (e *Engine) Reindex(ctx context.Context, corpusPath string, onProgress func(done, total int)) error {
	units, err := corpus.Load(corpusPath)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.embedder == nil {
		embedder, err := llm.NewEmbedderWithConfig(e.config.Embedder)
		if err != nil {
			return fmt.Errorf("initializing embedder: %w", err)
		}
		e.embedder = embedder
	}

	if e.index != nil {
		e.index.Close()
		e.index = nil
		e.ready = false
	}

	index, err := store.Build(ctx, e.config.Index, e.embedder, units, onProgress)
	if err != nil {
		return err
	}
	e.index = index
	return nil
}

// Close releases the open index, returning the engine to uninitialized.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ready = false
	e.retriever = nil
	if e.index != nil {
		err := e.index.Close()
		e.index = nil
		return err
	}
	return nil
}
