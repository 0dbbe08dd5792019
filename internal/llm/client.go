package llm

import (
	"context"
)

// LLMClient is the text-understanding capability boundary. The pipeline only
// ever sends a prompt and reads back raw text; prompt construction and
// response parsing live with the callers.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
