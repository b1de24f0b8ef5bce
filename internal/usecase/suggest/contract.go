package suggest

import "context"

// Completer produces a chat completion for subtask generation.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
