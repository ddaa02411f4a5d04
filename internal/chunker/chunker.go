// Package chunker splits normalised document text into overlapping
// segments along sentence and word boundaries.
package chunker

import (
	"regexp"
	"strings"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultOverlap is the default number of overlapping characters.
const DefaultOverlap = 200

// Boundary lookahead windows, in characters past the nominal chunk end.
const (
	sentenceLookahead = 100
	wordLookahead     = 50
)

var (
	multiNewline  = regexp.MustCompile(`\n{3,}`)
	whitespaceRun = regexp.MustCompile(`\s{2,}`)
)

// Splitter splits text into chunks of roughly chunkSize characters,
// preferring sentence boundaries, with a fixed overlap between
// consecutive chunks.
type Splitter struct {
	chunkSize int
	overlap   int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	// The overlap must stay below the chunk size or the cursor cannot
	// advance.
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// ChunkSize returns the configured chunk size.
func (s *Splitter) ChunkSize() int { return s.chunkSize }

// Overlap returns the configured overlap.
func (s *Splitter) Overlap() int { return s.overlap }

// Normalize collapses runs of three or more newlines to exactly two,
// and any other run of two or more whitespace characters to a single
// space. Runs containing two or more newlines stay a blank line so
// paragraph boundaries survive normalisation.
func Normalize(text string) string {
	text = multiNewline.ReplaceAllString(text, "\n\n")
	return whitespaceRun.ReplaceAllStringFunc(text, func(run string) string {
		if strings.Count(run, "\n") >= 2 {
			return "\n\n"
		}
		return " "
	})
}

// Split normalises text and walks it emitting overlapping chunks. A
// chunk ends at the first sentence terminator found within a bounded
// lookahead window past the nominal chunk size, falling back to the
// first word boundary in a shorter window, falling back to a hard cut.
// Empty or whitespace-only input yields no chunks. Split is a pure
// function of its input: identical text and configuration always
// produce the identical sequence.
func (s *Splitter) Split(text string) []string {
	runes := []rune(strings.TrimSpace(Normalize(text)))
	n := len(runes)
	if n == 0 {
		return nil
	}

	chunks := make([]string, 0, n/(s.chunkSize-s.overlap)+1)
	start := 0

	for start < n {
		end := start + s.chunkSize
		if end >= n {
			chunks = append(chunks, string(runes[start:]))
			break
		}

		boundary := findSentenceEnd(runes, end)
		if boundary < 0 {
			boundary = findWordEnd(runes, end)
		}
		chunks = append(chunks, string(runes[start:boundary]))

		// Minimum-advance guard: adversarial input (no boundaries,
		// large overlap) must not stall or rewind the cursor.
		next := boundary - s.overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}

	return chunks
}

// findSentenceEnd searches [pos, pos+sentenceLookahead) for the first
// occurrence of a sentence terminator, trying each terminator in
// priority order: '.', '!', '?', blank line. It returns the index one
// past the terminator, or -1 if none is found in the window.
func findSentenceEnd(runes []rune, pos int) int {
	limit := min(pos+sentenceLookahead, len(runes))

	for _, term := range []rune{'.', '!', '?'} {
		for i := pos; i < limit; i++ {
			if runes[i] == term {
				return i + 1
			}
		}
	}

	// Blank line: two consecutive newlines fully inside the window.
	for i := pos; i+1 < limit; i++ {
		if runes[i] == '\n' && runes[i+1] == '\n' {
			return i + 2
		}
	}

	return -1
}

// findWordEnd searches [pos, pos+wordLookahead) for the first space and
// returns the index one past it, or pos if the window has no space.
func findWordEnd(runes []rune, pos int) int {
	limit := min(pos+wordLookahead, len(runes))

	for i := pos; i < limit; i++ {
		if runes[i] == ' ' {
			return i + 1
		}
	}

	return pos
}
