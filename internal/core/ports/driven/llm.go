package driven

import "context"

// ChatMessage is a single message in a completion prompt.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// CompletionOptions configures answer generation.
type CompletionOptions struct {
	// Temperature controls randomness; 0 is deterministic.
	Temperature float64

	// MaxTokens bounds the generated output length.
	MaxTokens int
}

// CompletionService produces text from a chat-style prompt. Errors
// (quota, content policy, transport) propagate to the caller without
// retry.
type CompletionService interface {
	Complete(ctx context.Context, messages []ChatMessage, opts CompletionOptions) (string, error)
}
