package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/recall-labs/recall-cli/internal/core/domain"
	"github.com/recall-labs/recall-cli/internal/core/ports/driven"
	"github.com/recall-labs/recall-cli/internal/logger"
)

// DefaultMaxAnswerTokens bounds the length of a generated answer.
const DefaultMaxAnswerTokens = 500

// systemPrompt constrains the model to the retrieved context only.
const systemPrompt = "You are a helpful assistant that answers questions based on " +
	"the provided context. Use only the information from the context to answer questions. " +
	"If the context doesn't contain enough information to answer the question, say so clearly."

// noContextAnswer is returned verbatim when retrieval produced nothing.
const noContextAnswer = "I couldn't find any relevant information in your " +
	"knowledge base to answer this question."

// AnswerService composes a grounded answer from retrieved chunks using
// a chat completion model.
type AnswerService struct {
	llm       driven.CompletionService
	maxTokens int
}

// NewAnswerService creates an answer composer. maxTokens falls back to
// the default when zero.
func NewAnswerService(llm driven.CompletionService, maxTokens int) *AnswerService {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxAnswerTokens
	}
	return &AnswerService{
		llm:       llm,
		maxTokens: maxTokens,
	}
}

// Compose builds a context block from the retrieved chunks, asks the
// completion model, and returns the answer with its deduplicated
// sources. With no chunks it returns the fixed fallback answer without
// calling the model at all.
func (s *AnswerService) Compose(ctx context.Context, question string, results []domain.SearchResult) (*domain.Answer, error) {
	if len(results) == 0 {
		logger.Debug("No context retrieved, returning fallback answer")
		return &domain.Answer{Text: noContextAnswer}, nil
	}

	blocks := make([]string, len(results))
	for i, r := range results {
		blocks[i] = fmt.Sprintf("Source: %s\n%s", r.SourceName, r.Text)
	}

	messages := []driven.ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: fmt.Sprintf("Question: %s\n\nContext:\n%s", question, strings.Join(blocks, "\n\n"))},
	}

	// Temperature zero keeps answers reproducible for identical context.
	text, err := s.llm.Complete(ctx, messages, driven.CompletionOptions{
		Temperature: 0,
		MaxTokens:   s.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("complete answer: %w", err)
	}

	return &domain.Answer{
		Text:    text,
		Sources: dedupeSources(results),
	}, nil
}

// dedupeSources keeps the first occurrence of each source name, in
// retrieval order.
func dedupeSources(results []domain.SearchResult) []domain.Source {
	seen := make(map[string]struct{}, len(results))
	sources := make([]domain.Source, 0, len(results))

	for _, r := range results {
		if _, ok := seen[r.SourceName]; ok {
			continue
		}
		seen[r.SourceName] = struct{}{}
		sources = append(sources, domain.Source{
			Name: r.SourceName,
			Path: r.Path,
		})
	}

	return sources
}
