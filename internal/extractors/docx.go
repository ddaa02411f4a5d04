package extractors

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/recall-labs/recall-cli/internal/core/domain"
)

// Docx extracts text from Word documents. Only the OOXML container is
// understood; legacy binary .doc files fail to open as a ZIP archive
// and are reported as undecodable.
type Docx struct{}

// NewDocx creates a Word document extractor.
func NewDocx() *Docx {
	return &Docx{}
}

// Text opens the document as a ZIP archive and extracts the paragraph
// text from word/document.xml, one line per paragraph.
func (d *Docx) Text(_ context.Context, path string) (string, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open %s as word document: %w", path, domain.ErrDecode)
	}
	defer reader.Close()

	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("open document.xml in %s: %w", path, domain.ErrDecode)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("read document.xml in %s: %w", path, domain.ErrDecode)
		}

		return parseDocumentXML(content)
	}

	// A valid archive with no document part carries no text.
	return "", nil
}

// documentXML mirrors the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

// parseDocumentXML joins the run text of each paragraph and separates
// paragraphs with newlines.
func parseDocumentXML(content []byte) (string, error) {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return "", fmt.Errorf("parse document.xml: %w", domain.ErrDecode)
	}

	var result strings.Builder
	for i, para := range doc.Body.Paragraphs {
		if i > 0 {
			result.WriteString("\n")
		}
		for _, run := range para.Runs {
			for _, text := range run.Text {
				result.WriteString(text.Content)
			}
		}
	}

	return strings.TrimSpace(result.String()), nil
}
