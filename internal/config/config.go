// Package config loads recall settings from a TOML file with
// environment overrides for secrets.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Settings holds every tunable of the pipeline. Zero values are filled
// from Default before validation.
type Settings struct {
	// ChunkSize is the nominal chunk length in characters.
	ChunkSize int `toml:"chunk_size"`

	// ChunkOverlap is the number of characters shared between
	// consecutive chunks.
	ChunkOverlap int `toml:"chunk_overlap"`

	// EmbedBatchSize is the number of texts per embedding request.
	EmbedBatchSize int `toml:"embed_batch_size"`

	// IndexBatchSize is the number of chunks per index write
	// transaction.
	IndexBatchSize int `toml:"index_batch_size"`

	// TopK is the number of candidates fetched per query.
	TopK int `toml:"top_k"`

	// SimilarityThreshold is the minimum cosine similarity a candidate
	// needs to be used as context.
	SimilarityThreshold float64 `toml:"similarity_threshold"`

	// EmbeddingModel is the OpenAI embedding model name.
	EmbeddingModel string `toml:"embedding_model"`

	// EmbeddingDimension is the vector size produced by the model.
	EmbeddingDimension int `toml:"embedding_dimension"`

	// ChatModel is the OpenAI chat model used to compose answers.
	ChatModel string `toml:"chat_model"`

	// MaxAnswerTokens bounds the length of generated answers.
	MaxAnswerTokens int `toml:"max_answer_tokens"`

	// DataDir is where the index database lives. Empty means
	// ~/.recall/data.
	DataDir string `toml:"data_dir"`

	// Container is the object store folder for archived originals.
	Container string `toml:"container"`

	// Secrets come from the environment, never from the config file.
	OpenAIAPIKey     string `toml:"-"`
	DriveAccessToken string `toml:"-"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		ChunkSize:           1000,
		ChunkOverlap:        200,
		EmbedBatchSize:      16,
		IndexBatchSize:      100,
		TopK:                5,
		SimilarityThreshold: 0.7,
		EmbeddingModel:      "text-embedding-3-small",
		EmbeddingDimension:  1536,
		ChatModel:           "gpt-4o-mini",
		MaxAnswerTokens:     500,
		Container:           "recall-knowledge-base",
	}
}

// DefaultPath returns ~/.recall/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".recall", "config.toml"), nil
}

// Load builds settings from three layers: defaults, then the TOML file
// at configPath (a missing file is fine), then environment variables
// for secrets. envFile, when non-empty, is loaded into the process
// environment first, dotenv style.
func Load(configPath, envFile string) (Settings, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return Settings{}, fmt.Errorf("loading env file %s: %w", envFile, err)
		}
	} else {
		// A .env in the working directory is optional.
		_ = godotenv.Load()
	}

	settings := Default()

	if configPath == "" {
		var err error
		configPath, err = DefaultPath()
		if err != nil {
			return Settings{}, err
		}
	}

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &settings); err != nil {
			return Settings{}, fmt.Errorf("parsing %s: %w", configPath, err)
		}
	case os.IsNotExist(err):
		// Defaults apply.
	default:
		return Settings{}, fmt.Errorf("reading %s: %w", configPath, err)
	}

	settings.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	settings.DriveAccessToken = os.Getenv("GOOGLE_DRIVE_ACCESS_TOKEN")
	if dir := os.Getenv("RECALL_DATA_DIR"); dir != "" {
		settings.DataDir = dir
	}

	return settings, settings.Validate()
}

// Validate rejects settings the pipeline cannot run with.
func (s Settings) Validate() error {
	if s.ChunkSize <= 0 {
		return errors.New("chunk_size must be positive")
	}
	if s.ChunkOverlap < 0 || s.ChunkOverlap >= s.ChunkSize {
		return fmt.Errorf("chunk_overlap must be in [0, %d)", s.ChunkSize)
	}
	if s.EmbedBatchSize <= 0 {
		return errors.New("embed_batch_size must be positive")
	}
	if s.IndexBatchSize <= 0 {
		return errors.New("index_batch_size must be positive")
	}
	if s.TopK <= 0 {
		return errors.New("top_k must be positive")
	}
	if s.SimilarityThreshold < 0 || s.SimilarityThreshold > 1 {
		return errors.New("similarity_threshold must be in [0, 1]")
	}
	if s.EmbeddingDimension <= 0 {
		return errors.New("embedding_dimension must be positive")
	}
	if s.MaxAnswerTokens <= 0 {
		return errors.New("max_answer_tokens must be positive")
	}
	return nil
}
