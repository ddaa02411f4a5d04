package driven

import (
	"context"

	"github.com/recall-labs/recall-cli/internal/core/domain"
)

// VectorIndex stores embedded chunks and answers nearest-neighbour
// queries over them.
type VectorIndex interface {
	// EnsureSchema creates the index schema if absent. It is
	// idempotent and safe to call on every ingestion.
	EnsureSchema(ctx context.Context) error

	// Upsert writes chunks with embeddings in bounded-size batches.
	// Semantics are at-least-once and non-transactional across
	// batches: a failing batch is reported with its index, but
	// previously written batches stay in place.
	Upsert(ctx context.Context, chunks []domain.Chunk) error

	// Search returns up to k results ranked by descending cosine
	// similarity to the query vector. The optional filter is applied
	// before ranking. An empty result set is a valid outcome, not an
	// error.
	Search(ctx context.Context, vector []float32, k int, filter *domain.Filter) ([]domain.SearchResult, error)

	// Count reports the number of indexed chunks.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
