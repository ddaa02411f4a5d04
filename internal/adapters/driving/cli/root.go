// Package cli implements the recall command line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	embeddingopenai "github.com/recall-labs/recall-cli/internal/adapters/driven/embedding/openai"
	indexsqlite "github.com/recall-labs/recall-cli/internal/adapters/driven/index/sqlite"
	llmopenai "github.com/recall-labs/recall-cli/internal/adapters/driven/llm/openai"
	"github.com/recall-labs/recall-cli/internal/adapters/driven/objectstore/drive"
	"github.com/recall-labs/recall-cli/internal/config"
	"github.com/recall-labs/recall-cli/internal/core/ports/driven"
	"github.com/recall-labs/recall-cli/internal/core/services"
	"github.com/recall-labs/recall-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verboseFlag bool
	configFlag  string
	envFileFlag string
)

// settings is loaded once per invocation before any command runs.
var settings config.Settings

var rootCmd = &cobra.Command{
	Use:   "recall",
	Short: "Ask questions over your own documents",
	Long: `Recall ingests local documents into a searchable knowledge base
and answers questions about them using retrieval-augmented generation.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verboseFlag)

		loaded, err := config.Load(configFlag, envFileFlag)
		if err != nil {
			return err
		}
		settings = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "print pipeline diagnostics to stderr")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to config file (default ~/.recall/config.toml)")
	rootCmd.PersistentFlags().StringVar(&envFileFlag, "env", "", "path to a dotenv file to load")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// newBatcher builds the embedding batcher from the loaded settings.
func newBatcher() (*services.Batcher, error) {
	client, err := embeddingopenai.NewEmbeddingClient(embeddingopenai.Config{
		APIKey:     settings.OpenAIAPIKey,
		Model:      settings.EmbeddingModel,
		Dimensions: settings.EmbeddingDimension,
	})
	if err != nil {
		return nil, err
	}
	return services.NewBatcher(client, settings.EmbedBatchSize), nil
}

// openIndex opens the local vector index.
func openIndex() (*indexsqlite.Index, error) {
	return indexsqlite.NewIndex(settings.DataDir, settings.EmbeddingDimension, settings.IndexBatchSize)
}

// newObjectStore builds the Drive archive when a token is configured.
// No token means archival is off, which is not an error.
func newObjectStore(ctx context.Context) (driven.ObjectStore, error) {
	if settings.DriveAccessToken == "" {
		logger.Debug("No drive token configured, archival disabled")
		return nil, nil
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: settings.DriveAccessToken})
	return drive.NewStore(ctx, ts, settings.Container)
}

// newAnswerService builds the answer composer.
func newAnswerService() (*services.AnswerService, error) {
	client, err := llmopenai.NewCompletionClient(llmopenai.Config{
		APIKey: settings.OpenAIAPIKey,
		Model:  settings.ChatModel,
	})
	if err != nil {
		return nil, err
	}
	return services.NewAnswerService(client, settings.MaxAnswerTokens), nil
}
