package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/recall-labs/recall-cli/internal/chunker"
	"github.com/recall-labs/recall-cli/internal/core/services"
	"github.com/recall-labs/recall-cli/internal/extractors"
)

var ingestSkipUpload bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Index a file or directory into the knowledge base",
	Long: `Extracts text from the given file, or every supported file under the
given directory, chunks and embeds it, and writes it to the local index.
Originals are archived to the configured object store unless --skip-upload
is set. Supported formats: .pdf, .docx, .doc, .txt, .md.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestSkipUpload, "skip-upload", false, "index only, do not archive originals")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx := cmd.Context()

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	batcher, err := newBatcher()
	if err != nil {
		return err
	}
	index, err := openIndex()
	if err != nil {
		return err
	}
	defer index.Close()

	store, err := newObjectStore(ctx)
	if err != nil {
		return err
	}

	svc := services.NewIngestionService(
		extractors.NewRegistry(),
		chunker.New(
			chunker.WithChunkSize(settings.ChunkSize),
			chunker.WithOverlap(settings.ChunkOverlap),
		),
		batcher,
		store,
		index,
	)
	opts := services.IngestOptions{SkipUpload: ingestSkipUpload}

	var results []services.IngestResult
	if info.IsDir() {
		results, err = svc.IngestDir(ctx, path, opts)
		if err != nil {
			return err
		}
	} else {
		results = []services.IngestResult{svc.IngestFile(ctx, path, opts)}
	}

	var failed, chunks int
	for _, r := range results {
		if r.Err != nil {
			failed++
			cmd.Printf("%s %s: %v\n", errorStyle.Render("✗"), r.Path, r.Err)
			continue
		}

		chunks += r.Chunks
		line := fmt.Sprintf("%s %s (%d chunks)", successStyle.Render("✓"), r.Path, r.Chunks)
		if r.Object != nil {
			line += mutedStyle.Render(fmt.Sprintf("  archived as %s", r.Object.Name))
		}
		cmd.Println(line)
	}

	cmd.Println()
	cmd.Printf("Indexed %d chunks from %d of %d files\n", chunks, len(results)-failed, len(results))

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}
