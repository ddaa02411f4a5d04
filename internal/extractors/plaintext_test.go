package extractors

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestPlaintext_Text_UTF8(t *testing.T) {
	path := writeTemp(t, "notes.txt", []byte("héllo wörld"))

	text, err := NewPlaintext().Text(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "héllo wörld", text)
}

func TestPlaintext_Text_Latin1Fallback(t *testing.T) {
	// 0xE9 is 'é' in Latin-1 but an invalid UTF-8 byte on its own.
	path := writeTemp(t, "legacy.txt", []byte{'c', 'a', 'f', 0xE9})

	text, err := NewPlaintext().Text(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "café", text)
	assert.True(t, utf8.ValidString(text))
}

func TestPlaintext_Text_Empty(t *testing.T) {
	path := writeTemp(t, "empty.md", nil)

	text, err := NewPlaintext().Text(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestPlaintext_Text_MissingFile(t *testing.T) {
	_, err := NewPlaintext().Text(context.Background(), filepath.Join(t.TempDir(), "gone.txt"))
	require.Error(t, err)
}
