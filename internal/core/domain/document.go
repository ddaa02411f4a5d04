package domain

import "time"

// Document is the raw text of a single source file after extraction.
// It is produced by a text extractor and is immutable for the duration
// of one ingestion.
type Document struct {
	// SourceName is the file name (base name) of the document.
	SourceName string

	// Path is the location the document was extracted from.
	Path string

	// Text is the full extracted text before chunking.
	Text string

	// Type is the document type, the file extension without the dot.
	Type string

	// CreatedAt is the document creation time.
	CreatedAt time.Time

	// ModifiedAt is the document last-modified time.
	ModifiedAt time.Time
}

// Chunk is a contiguous segment of a document's normalised text.
// It is the unit of embedding and retrieval.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// Position is the ordinal position within the document.
	Position int

	// Text is the chunk content.
	Text string

	// SourceName is the file name of the originating document.
	SourceName string

	// Path is the originating document location.
	Path string

	// DocumentType is the originating document type.
	DocumentType string

	// CreatedAt is the originating document creation time.
	CreatedAt time.Time

	// ModifiedAt is the originating document last-modified time.
	ModifiedAt time.Time

	// Embedding is the vector representation. It is nil until the
	// embedding batcher populates it; after that the chunk is not
	// mutated again.
	Embedding []float32
}

// SearchResult is a retrieved chunk with its similarity score.
// Results are ephemeral, produced per query, never persisted.
type SearchResult struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Text is the chunk content.
	Text string

	// SourceName is the file name of the originating document.
	SourceName string

	// Path is the originating document location.
	Path string

	// DocumentType is the originating document type.
	DocumentType string

	// Score is the cosine similarity score (0-1).
	Score float64
}

// Source identifies a cited document in an answer.
type Source struct {
	Name string
	Path string
}

// Answer is a generated response grounded in retrieved context.
type Answer struct {
	// Text is the generated answer.
	Text string

	// Sources lists the distinct documents the context came from,
	// in first-seen order of the ranked results.
	Sources []Source
}
