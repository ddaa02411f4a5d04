package cli

import (
	"bufio"
	"context"
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/recall-labs/recall-cli/internal/core/domain"
	"github.com/recall-labs/recall-cli/internal/core/services"
)

var (
	queryInteractive bool
	queryFilter      string
	queryNoSources   bool
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a question against the knowledge base",
	Long: `Embeds the question, retrieves the most similar chunks from the index,
and composes an answer grounded in them. With --interactive (or with no
question argument) an interactive prompt is started; type "exit" or
"quit" to leave it.

Filters narrow the searched chunks, e.g.
  --filter "source eq 'notes.md'"
  --filter "document_type eq 'pdf' and modified ge '2026-01-01'"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().BoolVarP(&queryInteractive, "interactive", "i", false, "start an interactive question prompt")
	queryCmd.Flags().StringVar(&queryFilter, "filter", "", "metadata filter expression")
	queryCmd.Flags().BoolVar(&queryNoSources, "no-sources", false, "omit the source list from answers")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	filter, err := domain.ParseFilter(queryFilter)
	if err != nil {
		return err
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
	if err := index.EnsureSchema(ctx); err != nil {
		return err
	}

	retrieval := services.NewRetrievalService(batcher, index, settings.TopK, settings.SimilarityThreshold)
	answerer, err := newAnswerService()
	if err != nil {
		return err
	}

	if len(args) == 1 && !queryInteractive {
		return answerOne(ctx, cmd, retrieval, answerer, args[0], filter)
	}

	return interactiveLoop(ctx, cmd, retrieval, answerer, filter)
}

// answerOne runs the retrieve-then-compose pipeline for one question.
func answerOne(
	ctx context.Context,
	cmd *cobra.Command,
	retrieval *services.RetrievalService,
	answerer *services.AnswerService,
	question string,
	filter *domain.Filter,
) error {
	results, err := retrieval.Retrieve(ctx, question, filter)
	if err != nil {
		return err
	}

	answer, err := answerer.Compose(ctx, question, results)
	if err != nil {
		return err
	}

	cmd.Println(answer.Text)

	if !queryNoSources && len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Println(titleStyle.Render("Sources:"))
		for _, source := range answer.Sources {
			cmd.Printf("  %s %s\n", mutedStyle.Render("•"), source.Name)
		}
	}

	return nil
}

// interactiveLoop reads questions from stdin until exit, quit, or EOF.
func interactiveLoop(
	ctx context.Context,
	cmd *cobra.Command,
	retrieval *services.RetrievalService,
	answerer *services.AnswerService,
	filter *domain.Filter,
) error {
	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if interactive {
		cmd.Println(titleStyle.Render("recall — ask about your knowledge base"))
		cmd.Println(mutedStyle.Render(`type "exit" or "quit" to leave`))
		cmd.Println()
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		if interactive {
			cmd.Print("recall> ")
		}

		if !scanner.Scan() {
			if interactive {
				cmd.Println()
			}
			return scanner.Err()
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			return nil
		}

		if err := answerOne(ctx, cmd, retrieval, answerer, question, filter); err != nil {
			// A failed question should not kill the session unless the
			// context itself is gone.
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			cmd.Printf("%s %v\n", errorStyle.Render("error:"), err)
		}
		cmd.Println()
	}
}
