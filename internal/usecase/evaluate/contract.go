package evaluate

import "context"

// LLMClient completes a prompt against the configured language model.
type LLMClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Model() string
}
