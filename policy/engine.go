// Package policy evaluates content-admission decisions with OPA.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/v1/rego"
)

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.content_policy.decision"),
		rego.Module("content_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Evaluate checks the content policy.
// Input is a map with keys: stage, score, output_length.
// Returns the decision string ("admit" or "reject").
func (e *Engine) Evaluate(ctx context.Context, input interface{}) (string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		// The policy defines a default; an empty result set means the
		// module is malformed rather than "no opinion".
		return "reject", nil
	}

	if s, ok := results[0].Expressions[0].Value.(string); ok {
		return s, nil
	}
	return "reject", nil
}

// Admit is a convenience wrapper for the common admission check.
func (e *Engine) Admit(ctx context.Context, stage string, score float64, outputLength int) (bool, error) {
	decision, err := e.Evaluate(ctx, map[string]interface{}{
		"stage":         stage,
		"score":         score,
		"output_length": outputLength,
	})
	if err != nil {
		return false, err
	}
	return decision == "admit", nil
}

// DefaultPolicy is the default content-admission policy: only non-empty
// outputs scoring at or above the quality bar are admitted to the cache.
const DefaultPolicy = `
package content_policy

default decision := "reject"

decision := "admit" if {
	input.score >= 9.5
	input.output_length > 0
}
`
