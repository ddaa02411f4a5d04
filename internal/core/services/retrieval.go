package services

import (
	"context"
	"fmt"

	"github.com/recall-labs/recall-cli/internal/core/domain"
	"github.com/recall-labs/recall-cli/internal/core/ports/driven"
	"github.com/recall-labs/recall-cli/internal/logger"
)

// Default retrieval parameters.
const (
	DefaultTopK                = 5
	DefaultSimilarityThreshold = 0.7
)

// RetrievalService embeds a query, runs a nearest-neighbour search
// against the vector index, and filters the candidates by similarity
// threshold.
type RetrievalService struct {
	batcher   *Batcher
	index     driven.VectorIndex
	topK      int
	threshold float64
}

// NewRetrievalService creates a retrieval service. topK and threshold
// fall back to the defaults when zero.
func NewRetrievalService(batcher *Batcher, index driven.VectorIndex, topK int, threshold float64) *RetrievalService {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	return &RetrievalService{
		batcher:   batcher,
		index:     index,
		topK:      topK,
		threshold: threshold,
	}
}

// Retrieve returns ranked candidate chunks for the query. Results below
// the similarity threshold are dropped outright; the survivors keep the
// index's descending-score order. An empty result set means "no
// relevant context found" and is not an error.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, filter *domain.Filter) ([]domain.SearchResult, error) {
	logger.Section("Retrieval")
	logger.Debug("Query: %q, top-k: %d, threshold: %.2f", query, s.topK, s.threshold)

	vector, err := s.batcher.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	candidates, err := s.index.Search(ctx, vector, s.topK, filter)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	logger.Debug("Index returned %d candidates", len(candidates))

	// Hard cutoff, not a re-rank: keep or drop, never reorder.
	results := make([]domain.SearchResult, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Score < s.threshold {
			logger.Debug("Dropping %s (score %.3f below threshold)", candidate.ChunkID, candidate.Score)
			continue
		}
		results = append(results, candidate)
	}

	logger.Info("Retrieved %d relevant chunks", len(results))
	return results, nil
}
