package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/Nairod97425/Rag/internal/models"
)

// pgvectorIndex stores indexed units in a Postgres table with a pgvector
// embedding column. It serves deployments that already run Postgres;
// the sqlite backend remains the default for local single-process use.
type pgvectorIndex struct {
	config Config
	pool   *pgxpool.Pool
}

func openPGVector(ctx context.Context, cfg Config) (*pgvectorIndex, error) {
	idx, err := connectPGVector(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var exists bool
	err = idx.pool.QueryRow(ctx,
		"SELECT to_regclass($1) IS NOT NULL", cfg.TableName).Scan(&exists)
	if err != nil {
		idx.pool.Close()
		return nil, fmt.Errorf("failed to check table: %w", err)
	}
	if !exists {
		idx.pool.Close()
		return nil, fmt.Errorf("%w: table %s", ErrIndexNotFound, cfg.TableName)
	}
	return idx, nil
}

func createPGVector(ctx context.Context, cfg Config) (*pgvectorIndex, error) {
	idx, err := connectPGVector(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := idx.initialize(ctx); err != nil {
		idx.pool.Close()
		return nil, err
	}
	return idx, nil
}

func destroyPGVector(ctx context.Context, cfg Config) error {
	idx, err := connectPGVector(ctx, cfg)
	if err != nil {
		return err
	}
	defer idx.pool.Close()

	_, err = idx.pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", cfg.TableName))
	if err != nil {
		return fmt.Errorf("failed to drop table: %w", err)
	}
	return nil
}

func connectPGVector(ctx context.Context, cfg Config) (*pgvectorIndex, error) {
	pool, err := pgxpool.New(ctx, cfg.ConnString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &pgvectorIndex{config: cfg, pool: pool}, nil
}

func (vs *pgvectorIndex) initialize(ctx context.Context) error {
	_, err := vs.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector")
	if err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}

	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id BIGSERIAL PRIMARY KEY,
			source TEXT NOT NULL,
			title TEXT NOT NULL,
			chunk_id TEXT,
			content TEXT NOT NULL,
			embedding vector(%d)
		)`, vs.config.TableName, vs.config.VectorDim)

	if _, err = vs.pool.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	createIndex := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS %s_embedding_idx
		ON %s
		USING ivfflat (embedding vector_cosine_ops)
		WITH (lists = 100)`,
		vs.config.TableName, vs.config.TableName)

	if _, err = vs.pool.Exec(ctx, createIndex); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	return nil
}

func (vs *pgvectorIndex) Add(ctx context.Context, units []models.IndexedUnit, vectors [][]float32) error {
	if len(units) != len(vectors) {
		return fmt.Errorf("units and vectors length mismatch: %d vs %d", len(units), len(vectors))
	}

	tx, err := vs.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	stmt := fmt.Sprintf(`
		INSERT INTO %s (source, title, chunk_id, content, embedding)
		VALUES ($1, $2, $3, $4, $5)`,
		vs.config.TableName)

	for i, unit := range units {
		_, err = tx.Exec(ctx, stmt,
			unit.Source,
			unit.Title,
			unit.ChunkID,
			unit.Text,
			pgvector.NewVector(vectors[i]),
		)
		if err != nil {
			return fmt.Errorf("failed to insert chunk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (vs *pgvectorIndex) Search(ctx context.Context, vector []float32, k int) ([]models.ScoredUnit, error) {
	query := fmt.Sprintf(`
		SELECT source, title, chunk_id, content, 1 - (embedding <=> $1) AS score
		FROM %s
		ORDER BY embedding <=> $1
		LIMIT $2`,
		vs.config.TableName)

	rows, err := vs.pool.Query(ctx, query, pgvector.NewVector(vector), k)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()

	var results []models.ScoredUnit
	for rows.Next() {
		var r models.ScoredUnit
		if err := rows.Scan(&r.Source, &r.Title, &r.ChunkID, &r.Text, &r.Score); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading chunks: %w", err)
	}
	return results, nil
}

func (vs *pgvectorIndex) Count(ctx context.Context) (int64, error) {
	var n int64
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", vs.config.TableName)
	if err := vs.pool.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return n, nil
}

func (vs *pgvectorIndex) Close() error {
	if vs.pool != nil {
		vs.pool.Close()
	}
	return nil
}
