package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recall-labs/recall-cli/internal/core/domain"
	"github.com/recall-labs/recall-cli/internal/core/ports/driven"
)

type fakeLLM struct {
	answer   string
	err      error
	calls    int
	messages []driven.ChatMessage
	opts     driven.CompletionOptions
}

func (f *fakeLLM) Complete(_ context.Context, messages []driven.ChatMessage, opts driven.CompletionOptions) (string, error) {
	f.calls++
	f.messages = messages
	f.opts = opts
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func TestAnswerService_Compose_NoContextSkipsModel(t *testing.T) {
	llm := &fakeLLM{answer: "should never be seen"}
	s := NewAnswerService(llm, 0)

	answer, err := s.Compose(context.Background(), "what is recall?", nil)
	require.NoError(t, err)
	assert.Equal(t, noContextAnswer, answer.Text)
	assert.Empty(t, answer.Sources)
	assert.Zero(t, llm.calls, "fallback must not invoke the model")
}

func TestAnswerService_Compose_BuildsContextBlock(t *testing.T) {
	llm := &fakeLLM{answer: "Recall is a note indexer."}
	s := NewAnswerService(llm, 200)

	results := []domain.SearchResult{
		{ChunkID: "1", Text: "Recall indexes notes.", SourceName: "notes.md", Path: "/kb/notes.md", Score: 0.9},
		{ChunkID: "2", Text: "It answers questions.", SourceName: "faq.md", Path: "/kb/faq.md", Score: 0.8},
	}

	answer, err := s.Compose(context.Background(), "what is recall?", results)
	require.NoError(t, err)
	assert.Equal(t, "Recall is a note indexer.", answer.Text)

	require.Len(t, llm.messages, 2)
	assert.Equal(t, "system", llm.messages[0].Role)
	assert.Equal(t, systemPrompt, llm.messages[0].Content)

	user := llm.messages[1].Content
	assert.True(t, strings.HasPrefix(user, "Question: what is recall?\n\nContext:\n"))
	assert.Contains(t, user, "Source: notes.md\nRecall indexes notes.")
	assert.Contains(t, user, "Source: faq.md\nIt answers questions.")
	assert.Contains(t, user, "Recall indexes notes.\n\nSource: faq.md",
		"context blocks must be joined by a blank line")

	assert.Zero(t, llm.opts.Temperature)
	assert.Equal(t, 200, llm.opts.MaxTokens)
}

func TestAnswerService_Compose_DedupesSourcesFirstSeen(t *testing.T) {
	llm := &fakeLLM{answer: "ok"}
	s := NewAnswerService(llm, 0)

	results := []domain.SearchResult{
		{ChunkID: "1", SourceName: "a.md", Path: "/kb/a.md", Text: "x"},
		{ChunkID: "2", SourceName: "b.md", Path: "/kb/b.md", Text: "y"},
		{ChunkID: "3", SourceName: "a.md", Path: "/kb/a.md", Text: "z"},
	}

	answer, err := s.Compose(context.Background(), "q", results)
	require.NoError(t, err)
	require.Len(t, answer.Sources, 2)
	assert.Equal(t, domain.Source{Name: "a.md", Path: "/kb/a.md"}, answer.Sources[0])
	assert.Equal(t, domain.Source{Name: "b.md", Path: "/kb/b.md"}, answer.Sources[1])
}

func TestAnswerService_Compose_PropagatesModelError(t *testing.T) {
	llm := &fakeLLM{err: errors.New("rate limited")}
	s := NewAnswerService(llm, 0)

	_, err := s.Compose(context.Background(), "q", []domain.SearchResult{
		{ChunkID: "1", SourceName: "a.md", Text: "x"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "complete answer")
}
