package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "config.toml"), "")
	require.NoError(t, err)

	assert.Equal(t, 1000, settings.ChunkSize)
	assert.Equal(t, 200, settings.ChunkOverlap)
	assert.Equal(t, 16, settings.EmbedBatchSize)
	assert.Equal(t, 100, settings.IndexBatchSize)
	assert.Equal(t, 5, settings.TopK)
	assert.InDelta(t, 0.7, settings.SimilarityThreshold, 1e-9)
	assert.Equal(t, 1536, settings.EmbeddingDimension)
	assert.Equal(t, 500, settings.MaxAnswerTokens)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
chunk_size = 800
chunk_overlap = 100
top_k = 3
similarity_threshold = 0.5
container = "my-archive"
`), 0o644))

	settings, err := Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, 800, settings.ChunkSize)
	assert.Equal(t, 100, settings.ChunkOverlap)
	assert.Equal(t, 3, settings.TopK)
	assert.InDelta(t, 0.5, settings.SimilarityThreshold, 1e-9)
	assert.Equal(t, "my-archive", settings.Container)
	// Untouched keys keep their defaults.
	assert.Equal(t, 16, settings.EmbedBatchSize)
}

func TestLoad_SecretsFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GOOGLE_DRIVE_ACCESS_TOKEN", "ya29.test")
	t.Setenv("RECALL_DATA_DIR", "/tmp/recall-data")

	settings, err := Load(filepath.Join(t.TempDir(), "config.toml"), "")
	require.NoError(t, err)

	assert.Equal(t, "sk-test", settings.OpenAIAPIKey)
	assert.Equal(t, "ya29.test", settings.DriveAccessToken)
	assert.Equal(t, "/tmp/recall-data", settings.DataDir)
}

func TestLoad_EnvFile(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	envPath := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("OPENAI_API_KEY=sk-from-dotenv\n"), 0o644))

	settings, err := Load(filepath.Join(t.TempDir(), "config.toml"), envPath)
	require.NoError(t, err)
	assert.Equal(t, "sk-from-dotenv", settings.OpenAIAPIKey)
}

func TestLoad_MissingEnvFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "config.toml"), filepath.Join(t.TempDir(), "absent.env"))
	require.Error(t, err)
}

func TestLoad_InvalidToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("chunk_size = [not toml"), 0o644))

	_, err := Load(path, "")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		errMsg string
	}{
		{"zero chunk size", func(s *Settings) { s.ChunkSize = 0 }, "chunk_size"},
		{"overlap at chunk size", func(s *Settings) { s.ChunkOverlap = s.ChunkSize }, "chunk_overlap"},
		{"negative overlap", func(s *Settings) { s.ChunkOverlap = -1 }, "chunk_overlap"},
		{"zero embed batch", func(s *Settings) { s.EmbedBatchSize = 0 }, "embed_batch_size"},
		{"zero index batch", func(s *Settings) { s.IndexBatchSize = 0 }, "index_batch_size"},
		{"zero top k", func(s *Settings) { s.TopK = 0 }, "top_k"},
		{"threshold above one", func(s *Settings) { s.SimilarityThreshold = 1.5 }, "similarity_threshold"},
		{"zero dimension", func(s *Settings) { s.EmbeddingDimension = 0 }, "embedding_dimension"},
		{"zero answer tokens", func(s *Settings) { s.MaxAnswerTokens = 0 }, "max_answer_tokens"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := Default()
			tt.mutate(&settings)
			err := settings.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	assert.NoError(t, Default().Validate())
}
