package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/inkwell/orchestrator/internal/domain"
	"github.com/inkwell/orchestrator/internal/prompts"
)

// MockBackend is a deterministic Backend for local runs and tests. Every
// output scores above the quality bar so pipelines complete on the first
// attempt.
type MockBackend struct{}

// NewMockBackend creates a new mock backend.
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

// Generate returns a canned markdown response derived from the prompt.
func (m *MockBackend) Generate(_ context.Context, prompt prompts.Prompt) (string, error) {
	var sb strings.Builder
	sb.WriteString("# Mock Draft\n\n")
	sb.WriteString("This is placeholder prose produced by the mock backend.\n\n")
	fmt.Fprintf(&sb, "Input was:\n\n```\n%s\n```\n", truncate(prompt.User, 200))
	return sb.String(), nil
}

// Evaluate returns a fixed passing score.
func (m *MockBackend) Evaluate(_ context.Context, _ domain.StageKind, _ string) (float64, error) {
	return 9.8, nil
}

// truncate shortens a string to the given length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
