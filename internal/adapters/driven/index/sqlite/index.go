// Package sqlite implements the vector index on a local SQLite
// database. Embeddings are stored as little-endian float32 blobs and
// searched by brute-force cosine similarity, which is exact and fast
// enough for a personal knowledge base.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/recall-labs/recall-cli/internal/adapters/driven/index/sqlite/migrations"
	"github.com/recall-labs/recall-cli/internal/core/domain"
	"github.com/recall-labs/recall-cli/internal/core/ports/driven"
	"github.com/recall-labs/recall-cli/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// DefaultUpsertBatchSize is the default number of chunks per write
// transaction.
const DefaultUpsertBatchSize = 100

// Index is a SQLite-backed vector index.
type Index struct {
	db        *sql.DB
	path      string
	dimension int
	batchSize int
}

// NewIndex opens (or creates) the index database under dataDir.
// If dataDir is empty, defaults to ~/.recall/data/index.db.
func NewIndex(dataDir string, dimension, batchSize int) (*Index, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".recall", "data")
	}
	if batchSize <= 0 {
		batchSize = DefaultUpsertBatchSize
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "index.db")

	// WAL mode for better concurrency between readers and the writer.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", domain.ErrStorageUnavailable, err)
	}

	return &Index{
		db:        db,
		path:      dbPath,
		dimension: dimension,
		batchSize: batchSize,
	}, nil
}

// Close closes the database connection.
func (idx *Index) Close() error {
	return idx.db.Close()
}

// Path returns the database file path.
func (idx *Index) Path() string {
	return idx.path
}

// EnsureSchema runs all pending migrations. It is idempotent.
func (idx *Index) EnsureSchema(ctx context.Context) error {
	return idx.migrate(ctx, migrations.FS)
}

// migrate applies every unapplied *.up.sql migration in version order.
func (idx *Index) migrate(ctx context.Context, fsys embed.FS) error {
	_, err := idx.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := idx.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := idx.db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := idx.db.ExecContext(ctx,
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Upsert writes chunks in batches, one transaction per batch. Chunks
// with an existing id are replaced. Batches already committed before a
// failure stay committed; the error names the failing batch.
func (idx *Index) Upsert(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	batches := (len(chunks) + idx.batchSize - 1) / idx.batchSize
	logger.Debug("Upserting %d chunks in %d batches of up to %d", len(chunks), batches, idx.batchSize)

	for i := 0; i < len(chunks); i += idx.batchSize {
		end := min(i+idx.batchSize, len(chunks))
		if err := idx.upsertBatch(ctx, chunks[i:end]); err != nil {
			return fmt.Errorf("upsert batch %d/%d: %w", i/idx.batchSize+1, batches, err)
		}
	}

	return nil
}

func (idx *Index) upsertBatch(ctx context.Context, chunks []domain.Chunk) error {
	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, position, content, source, path, document_type, created_at, modified_at, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			position = excluded.position,
			content = excluded.content,
			source = excluded.source,
			path = excluded.path,
			document_type = excluded.document_type,
			created_at = excluded.created_at,
			modified_at = excluded.modified_at,
			embedding = excluded.embedding
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		if idx.dimension > 0 && len(chunk.Embedding) != idx.dimension {
			return fmt.Errorf("chunk %s: embedding has %d dimensions, index expects %d",
				chunk.ID, len(chunk.Embedding), idx.dimension)
		}

		embeddingBlob := float32SliceToBytes(chunk.Embedding)

		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.Position, chunk.Text,
			chunk.SourceName, chunk.Path, chunk.DocumentType,
			chunk.CreatedAt.UTC(), chunk.ModifiedAt.UTC(), embeddingBlob); err != nil {
			return fmt.Errorf("saving chunk %s: %w", chunk.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Search scans the rows matching the filter, scores each stored
// embedding by cosine similarity against the query vector, and returns
// the k best in descending score order.
func (idx *Index) Search(ctx context.Context, vector []float32, k int, filter *domain.Filter) ([]domain.SearchResult, error) {
	if k <= 0 {
		return nil, nil
	}

	query := "SELECT id, content, source, path, document_type, embedding FROM chunks"
	where, args, err := compileFilter(filter)
	if err != nil {
		return nil, err
	}
	if where != "" {
		query += " WHERE " + where
	}

	rows, err := idx.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var results []domain.SearchResult //nolint:prealloc // size unknown from query
	for rows.Next() {
		var r domain.SearchResult
		var embeddingBlob []byte
		if err := rows.Scan(&r.ChunkID, &r.Text, &r.SourceName, &r.Path, &r.DocumentType, &embeddingBlob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}

		r.Score = cosineSimilarity(vector, bytesToFloat32Slice(embeddingBlob))
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > k {
		results = results[:k]
	}

	return results, nil
}

// Count reports the number of indexed chunks.
func (idx *Index) Count(ctx context.Context) (int, error) {
	var count int
	if err := idx.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return count, nil
}

// filterColumns maps filter fields to their table columns.
var filterColumns = map[string]string{
	"source":        "source",
	"path":          "path",
	"document_type": "document_type",
	"created":       "created_at",
	"modified":      "modified_at",
}

// compileFilter translates a parsed filter into a WHERE clause with
// placeholder arguments. Conditions are AND-combined, matching the
// filter grammar.
func compileFilter(filter *domain.Filter) (string, []any, error) {
	if filter == nil || len(filter.Conditions) == 0 {
		return "", nil, nil
	}

	clauses := make([]string, 0, len(filter.Conditions))
	args := make([]any, 0, len(filter.Conditions))

	for _, cond := range filter.Conditions {
		column, ok := filterColumns[cond.Field]
		if !ok {
			return "", nil, fmt.Errorf("%w: unknown filter field %q", domain.ErrInvalidInput, cond.Field)
		}

		var op string
		switch cond.Op {
		case domain.OpEq:
			op = "="
		case domain.OpGe:
			op = ">="
		case domain.OpLe:
			op = "<="
		default:
			return "", nil, fmt.Errorf("%w: unknown filter operator %q", domain.ErrInvalidInput, cond.Op)
		}

		clauses = append(clauses, fmt.Sprintf("%s %s ?", column, op))
		if cond.Field == "created" || cond.Field == "modified" {
			args = append(args, cond.Time.UTC())
		} else {
			args = append(args, cond.Value)
		}
	}

	return strings.Join(clauses, " AND "), args, nil
}

// cosineSimilarity computes the cosine of the angle between two
// vectors. Mismatched lengths or a zero-norm vector score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
