package extractors

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/recall-labs/recall-cli/internal/core/domain"
)

// PDF extracts the plain text layer of PDF files.
type PDF struct{}

// NewPDF creates a PDF extractor.
func NewPDF() *PDF {
	return &PDF{}
}

// Text reads the text layer of the whole document. Encrypted or
// malformed files are reported as undecodable rather than failing the
// run with a parser error.
func (p *PDF) Text(_ context.Context, path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s as pdf: %w", path, domain.ErrDecode)
	}
	defer file.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text from %s: %w", path, domain.ErrDecode)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("extract pdf text from %s: %w", path, domain.ErrDecode)
	}

	return buf.String(), nil
}
