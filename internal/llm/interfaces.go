// Package llm provides the optional text-generation backend used to
// elaborate on user input. Only single-string completion is supported.
package llm

import "context"

// TextGenerator is the interface for LLM text completion.
type TextGenerator interface {
	Complete(ctx context.Context, prompt string) (string, error)
	GetModel() string
}

// HealthChecker is implemented by generators that can probe their backend.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
