package services

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"github.com/recall-labs/recall-cli/internal/chunker"
	"github.com/recall-labs/recall-cli/internal/core/domain"
	"github.com/recall-labs/recall-cli/internal/core/ports/driven"
	"github.com/recall-labs/recall-cli/internal/logger"
)

// IngestOptions tunes a single ingestion run.
type IngestOptions struct {
	// SkipUpload leaves the original file out of the object store and
	// only writes the chunks to the index.
	SkipUpload bool
}

// IngestResult reports the outcome of ingesting one file.
type IngestResult struct {
	Path   string
	Chunks int
	Object *driven.StoredObject
	Err    error
}

// IngestionService runs the ingestion pipeline: extract, chunk, embed,
// optionally archive the original, and index.
type IngestionService struct {
	extractor driven.TextExtractor
	splitter  *chunker.Splitter
	batcher   *Batcher
	store     driven.ObjectStore // nil disables archival entirely
	index     driven.VectorIndex
}

// NewIngestionService wires the ingestion pipeline. A nil store is
// valid and means originals are never archived.
func NewIngestionService(
	extractor driven.TextExtractor,
	splitter *chunker.Splitter,
	batcher *Batcher,
	store driven.ObjectStore,
	index driven.VectorIndex,
) *IngestionService {
	return &IngestionService{
		extractor: extractor,
		splitter:  splitter,
		batcher:   batcher,
		store:     store,
		index:     index,
	}
}

// IngestFile runs the full pipeline for a single file. A document whose
// extracted text normalises to nothing is a success with zero chunks;
// nothing is written for it. Archival failures after the index write
// are real failures: the chunks stay indexed, the result carries the
// error.
func (s *IngestionService) IngestFile(ctx context.Context, path string, opts IngestOptions) IngestResult {
	result := IngestResult{Path: path}

	doc, err := s.extractor.Extract(ctx, path)
	if err != nil {
		result.Err = fmt.Errorf("extract: %w", err)
		return result
	}

	texts := s.splitter.Split(doc.Text)
	if len(texts) == 0 {
		logger.Info("No text extracted from %s, skipping", path)
		return result
	}
	logger.Debug("Split %s into %d chunks", path, len(texts))

	vectors, err := s.batcher.EmbedTexts(ctx, texts)
	if err != nil {
		result.Err = fmt.Errorf("embed: %w", err)
		return result
	}

	chunks := make([]domain.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = domain.Chunk{
			ID:           uuid.New().String(),
			Position:     i,
			Text:         text,
			SourceName:   doc.SourceName,
			Path:         doc.Path,
			DocumentType: doc.Type,
			CreatedAt:    doc.CreatedAt,
			ModifiedAt:   doc.ModifiedAt,
			Embedding:    vectors[i],
		}
	}

	if err := s.index.EnsureSchema(ctx); err != nil {
		result.Err = fmt.Errorf("ensure schema: %w", err)
		return result
	}
	if err := s.index.Upsert(ctx, chunks); err != nil {
		result.Err = fmt.Errorf("index: %w", err)
		return result
	}
	result.Chunks = len(chunks)

	if s.store != nil && !opts.SkipUpload {
		object, err := s.store.Put(ctx, path)
		if err != nil {
			result.Err = fmt.Errorf("archive original: %w", err)
			return result
		}
		result.Object = object
	}

	return result
}

// IngestDir walks dir recursively and ingests every supported file,
// in lexical path order. One bad file does not stop the run: its
// result carries the error and the walk continues. The returned error
// covers the walk itself, not per-file failures.
func (s *IngestionService) IngestDir(ctx context.Context, dir string, opts IngestOptions) ([]IngestResult, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !s.extractor.Supports(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(paths)

	logger.Info("Found %d supported files under %s", len(paths), dir)

	results := make([]IngestResult, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, s.IngestFile(ctx, path, opts))
	}

	return results, nil
}
