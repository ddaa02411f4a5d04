package driven

import "context"

// EmbeddingClient generates vector embeddings from text. One call is
// one request; batching across requests is the embedding batcher's
// concern, not the client's.
type EmbeddingClient interface {
	// Embed generates one embedding per input text, positionally
	// aligned with the input. The returned vectors all have length
	// Dimensions().
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g. 1536).
	// This must match the vector index configuration.
	Dimensions() int
}
