// Package llm provides an abstraction for the generation and evaluation
// backends.
package llm

import (
	"context"

	"github.com/inkwell/orchestrator/internal/domain"
	"github.com/inkwell/orchestrator/internal/prompts"
)

// Backend defines the two opaque calls the pipeline makes: generate text
// for a prompt, and score text on the 0-10 scale. Transport and quota
// failures surface as *domain.BackendError.
type Backend interface {
	Generate(ctx context.Context, prompt prompts.Prompt) (string, error)
	Evaluate(ctx context.Context, stage domain.StageKind, text string) (float64, error)
}

// Ensure implementations satisfy Backend.
var (
	_ Backend = (*OpenAIBackend)(nil)
	_ Backend = (*MockBackend)(nil)
)
