package store

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/Nairod97425/Rag/internal/models"
)

const sqliteDBName = "index.db"

// sqliteIndex persists indexed units in a single SQLite database inside
// the configured directory. Vectors are stored as little-endian float32
// blobs; search is a brute-force cosine scan, which is plenty for a
// corpus of a few thousand chunks.
type sqliteIndex struct {
	db  *sql.DB
	dir string
}

func openSQLite(cfg Config) (*sqliteIndex, error) {
	dbPath := filepath.Join(cfg.Dir, sqliteDBName)
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, cfg.Dir)
	}
	return connectSQLite(cfg)
}

func createSQLite(cfg Config) (*sqliteIndex, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}
	idx, err := connectSQLite(cfg)
	if err != nil {
		return nil, err
	}
	if err := idx.initialize(); err != nil {
		idx.Close()
		return nil, err
	}
	return idx, nil
}

func destroySQLite(cfg Config) error {
	if err := os.RemoveAll(cfg.Dir); err != nil {
		return fmt.Errorf("removing index directory: %w", err)
	}
	return nil
}

func connectSQLite(cfg Config) (*sqliteIndex, error) {
	dbPath := filepath.Join(cfg.Dir, sqliteDBName)
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening index database: %w", err)
	}
	return &sqliteIndex{db: db, dir: cfg.Dir}, nil
}

func (s *sqliteIndex) initialize() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS chunks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			title TEXT NOT NULL,
			chunk_id TEXT,
			content TEXT NOT NULL,
			embedding BLOB NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("creating chunks table: %w", err)
	}
	return nil
}

func (s *sqliteIndex) Add(ctx context.Context, units []models.IndexedUnit, vectors [][]float32) error {
	if len(units) != len(vectors) {
		return fmt.Errorf("units and vectors length mismatch: %d vs %d", len(units), len(vectors))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (source, title, chunk_id, content, embedding)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, unit := range units {
		if _, err := stmt.ExecContext(ctx,
			unit.Source, unit.Title, unit.ChunkID, unit.Text, encodeVector(vectors[i]),
		); err != nil {
			return fmt.Errorf("failed to insert chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *sqliteIndex) Search(ctx context.Context, vector []float32, k int) ([]models.ScoredUnit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source, title, chunk_id, content, embedding FROM chunks`)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()

	var results []models.ScoredUnit
	for rows.Next() {
		var unit models.IndexedUnit
		var blob []byte
		if err := rows.Scan(&unit.Source, &unit.Title, &unit.ChunkID, &unit.Text, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		results = append(results, models.ScoredUnit{
			IndexedUnit: unit,
			Score:       cosineSimilarity(vector, decodeVector(blob)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading chunks: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

func (s *sqliteIndex) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return n, nil
}

func (s *sqliteIndex) Close() error {
	return s.db.Close()
}

func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(buf []byte) []float32 {
	v := make([]float32, len(buf)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return v
}

func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
