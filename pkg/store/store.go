package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/Nairod97425/Rag/internal/models"
	"github.com/Nairod97425/Rag/internal/types"
)

var (
	// ErrIndexNotFound is returned by Open when no index data exists at
	// the configured location.
	ErrIndexNotFound = errors.New("vector index not found")
	// ErrIndexBuild is returned when an index build cannot complete. No
	// partial index is committed.
	ErrIndexBuild = errors.New("vector index build failed")
)

// Backend names accepted by Config.Backend.
const (
	BackendSQLite   = "sqlite"
	BackendPGVector = "pgvector"
)

// Config selects and configures the index backend. The sqlite backend
// persists under Dir; the pgvector backend lives in a Postgres table.
type Config struct {
	Backend    string
	Dir        string // sqlite index directory
	ConnString string // pgvector connection string
	TableName  string
	VectorDim  int
	BatchSize  int
}

func (c Config) withDefaults() Config {
	if c.Backend == "" {
		c.Backend = BackendSQLite
	}
	if c.Dir == "" {
		c.Dir = "db_storage_local"
	}
	if c.TableName == "" {
		c.TableName = "documents"
	}
	if c.VectorDim == 0 {
		c.VectorDim = 768 // nomic-embed-text
	}
	if c.BatchSize == 0 {
		c.BatchSize = 32
	}
	return c
}

// Open reattaches to a previously built index without reprocessing the
// corpus. It fails with ErrIndexNotFound if nothing exists at the
// configured location.
func Open(ctx context.Context, cfg Config) (types.Index, error) {
	cfg = cfg.withDefaults()
	switch cfg.Backend {
	case BackendSQLite:
		return openSQLite(cfg)
	case BackendPGVector:
		return openPGVector(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown index backend %q", cfg.Backend)
	}
}

// Create initializes empty index storage at the configured location,
// replacing whatever was there.
func Create(ctx context.Context, cfg Config) (types.Index, error) {
	cfg = cfg.withDefaults()
	switch cfg.Backend {
	case BackendSQLite:
		return createSQLite(cfg)
	case BackendPGVector:
		return createPGVector(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown index backend %q", cfg.Backend)
	}
}

// Destroy removes all persisted index data. Combined with Build it is the
// only way back to an uninitialized index; there is no incremental update.
func Destroy(ctx context.Context, cfg Config) error {
	cfg = cfg.withDefaults()
	switch cfg.Backend {
	case BackendSQLite:
		return destroySQLite(cfg)
	case BackendPGVector:
		return destroyPGVector(ctx, cfg)
	default:
		return fmt.Errorf("unknown index backend %q", cfg.Backend)
	}
}

// Exists reports whether index data is present at the configured
// location. The surrounding application uses this as the sole signal to
// trigger a full corpus reindex before serving.
func Exists(ctx context.Context, cfg Config) bool {
	idx, err := Open(ctx, cfg)
	if err != nil {
		return false
	}
	idx.Close()
	return true
}

// Build embeds every unit and persists the index at the configured
// location, replacing any previous data. All embeddings are buffered
// before the first write, so a failing embedding call leaves the old
// index untouched and never commits a partial one. onProgress, if
// non-nil, is called after each embedded batch with (done, total).
func Build(ctx context.Context, cfg Config, embedder types.Embedder, units []models.IndexedUnit, onProgress func(done, total int)) (types.Index, error) {
	cfg = cfg.withDefaults()
	if len(units) == 0 {
		return nil, fmt.Errorf("%w: empty corpus", ErrIndexBuild)
	}
	if err := validateUnits(units); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexBuild, err)
	}

	vectors := make([][]float32, 0, len(units))
	for start := 0; start < len(units); start += cfg.BatchSize {
		end := start + cfg.BatchSize
		if end > len(units) {
			end = len(units)
		}
		texts := make([]string, 0, end-start)
		for _, u := range units[start:end] {
			texts = append(texts, u.Text)
		}
		batch, err := embedder.EmbedDocuments(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIndexBuild, err)
		}
		vectors = append(vectors, batch...)
		if onProgress != nil {
			onProgress(end, len(units))
		}
	}

	if err := Destroy(ctx, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexBuild, err)
	}
	idx, err := Create(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexBuild, err)
	}
	if err := idx.Add(ctx, units, vectors); err != nil {
		idx.Close()
		return nil, fmt.Errorf("%w: %v", ErrIndexBuild, err)
	}
	return idx, nil
}

// validateUnits rejects malformed metadata up front so a missing key can
// never surface later as a query-time failure. ChunkID is exempt: the
// loader normalizes a missing corpus id to the empty string, and the
// backends persist it as-is (the column is nullable).
func validateUnits(units []models.IndexedUnit) error {
	for i, u := range units {
		if u.Text == "" {
			return fmt.Errorf("unit %d has empty text", i)
		}
		if u.Source == "" {
			return fmt.Errorf("unit %d has empty source", i)
		}
		if u.Title == "" {
			return fmt.Errorf("unit %d has empty title", i)
		}
	}
	return nil
}
