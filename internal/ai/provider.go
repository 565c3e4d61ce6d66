package ai

import "context"

// LLMProvider sends a single-turn prompt to an LLM and returns the text of
// the first completion.
type LLMProvider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
