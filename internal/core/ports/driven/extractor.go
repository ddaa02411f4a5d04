package driven

import (
	"context"

	"github.com/recall-labs/recall-cli/internal/core/domain"
)

// TextExtractor converts a file on disk into a Document with raw text
// and file metadata.
//
// Implementations fail with domain.ErrUnsupportedType for unrecognised
// extensions, domain.ErrNotFound when the path does not exist, and
// domain.ErrDecode when the content cannot be decoded.
type TextExtractor interface {
	// Extract loads the file at path and returns its text content.
	Extract(ctx context.Context, path string) (*domain.Document, error)

	// Supports reports whether the extractor recognises the file's
	// extension. Used when walking directories.
	Supports(path string) bool
}
