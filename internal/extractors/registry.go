// Package extractors turns supported files into plain-text documents
// with filesystem metadata attached.
package extractors

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/recall-labs/recall-cli/internal/core/domain"
	"github.com/recall-labs/recall-cli/internal/core/ports/driven"
	"github.com/recall-labs/recall-cli/internal/logger"
)

// textReader extracts the raw text of one file format.
type textReader interface {
	Text(ctx context.Context, path string) (string, error)
}

// Ensure Registry implements the interface.
var _ driven.TextExtractor = (*Registry)(nil)

// Registry routes files to a format extractor by extension and wraps
// the extracted text in a document carrying filesystem metadata.
type Registry struct {
	byExt map[string]textReader
}

// NewRegistry creates a registry covering every supported extension.
func NewRegistry() *Registry {
	plain := NewPlaintext()
	word := NewDocx()

	return &Registry{byExt: map[string]textReader{
		".txt":  plain,
		".md":   plain,
		".pdf":  NewPDF(),
		".docx": word,
		".doc":  word,
	}}
}

// Supports reports whether the file's extension has an extractor.
func (r *Registry) Supports(path string) bool {
	_, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Extract reads the file and returns its text with metadata from the
// filesystem. The extension decides the extractor; unknown extensions
// fail with ErrUnsupportedType and missing files with ErrNotFound.
// Filesystems expose no portable creation time, so CreatedAt mirrors
// the modification time.
func (r *Registry) Extract(ctx context.Context, path string) (*domain.Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	reader, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrUnsupportedType)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory: %w", path, domain.ErrInvalidInput)
	}

	text, err := reader.Text(ctx, path)
	if err != nil {
		return nil, err
	}
	logger.Debug("Extracted %d characters from %s", len(text), path)

	modTime := info.ModTime()
	return &domain.Document{
		SourceName: filepath.Base(path),
		Path:       path,
		Text:       text,
		Type:       strings.TrimPrefix(ext, "."),
		CreatedAt:  modTime,
		ModifiedAt: modTime,
	}, nil
}
