package extractors

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// Plaintext reads .txt and .md files as-is.
type Plaintext struct{}

// NewPlaintext creates a plain text extractor.
func NewPlaintext() *Plaintext {
	return &Plaintext{}
}

// Text returns the file contents. Files that are not valid UTF-8 are
// reinterpreted as Latin-1, which maps every byte to a rune and so
// never fails.
func (p *Plaintext) Text(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	if utf8.Valid(data) {
		return string(data), nil
	}

	var sb strings.Builder
	sb.Grow(len(data))
	for _, b := range data {
		sb.WriteRune(rune(b))
	}
	return sb.String(), nil
}
