package services

import (
	"context"
	"fmt"

	"github.com/recall-labs/recall-cli/internal/core/ports/driven"
	"github.com/recall-labs/recall-cli/internal/logger"
)

// DefaultEmbedBatchSize is the default number of texts per embedding
// request.
const DefaultEmbedBatchSize = 16

// Batcher groups texts into contiguous request batches, obtains
// embeddings for each batch, and reassembles them in input order.
type Batcher struct {
	client    driven.EmbeddingClient
	batchSize int
}

// NewBatcher creates a batcher over the given embedding client.
func NewBatcher(client driven.EmbeddingClient, batchSize int) *Batcher {
	if batchSize <= 0 {
		batchSize = DefaultEmbedBatchSize
	}
	return &Batcher{
		client:    client,
		batchSize: batchSize,
	}
}

// EmbedTexts embeds texts in batches of the configured size, one
// request per batch, and returns the vectors positionally aligned with
// the input. A failing batch fails the whole call; the error names the
// batch so the caller can decide whether to retry the document or
// abort. There is no partial success and no internal retry.
func (b *Batcher) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	batches := (len(texts) + b.batchSize - 1) / b.batchSize
	logger.Debug("Embedding %d texts in %d batches of up to %d", len(texts), batches, b.batchSize)

	vectors := make([][]float32, 0, len(texts))
	for i := 0; i < len(texts); i += b.batchSize {
		end := min(i+b.batchSize, len(texts))
		batch := texts[i:end]

		got, err := b.client.Embed(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("embed batch %d/%d: %w", i/b.batchSize+1, batches, err)
		}
		if len(got) != len(batch) {
			return nil, fmt.Errorf("embed batch %d/%d: got %d embeddings for %d texts",
				i/b.batchSize+1, batches, len(got), len(batch))
		}

		vectors = append(vectors, got...)
	}

	return vectors, nil
}

// EmbedQuery embeds a single query string as a one-element batch.
func (b *Batcher) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	vectors, err := b.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}
