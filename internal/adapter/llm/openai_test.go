package llm

import (
	"context"
	"testing"
	"time"

	"github.com/inkwell/orchestrator/internal/domain"
	"github.com/inkwell/orchestrator/internal/prompts"
)

func TestParseScore(t *testing.T) {
	cases := []struct {
		name    string
		reply   string
		want    float64
		wantErr bool
	}{
		{name: "bare number", reply: "9.5", want: 9.5},
		{name: "integer", reply: "8", want: 8},
		{name: "surrounding whitespace", reply: "  9.2\n", want: 9.2},
		{name: "score out of ten", reply: "9.5/10", want: 9.5},
		{name: "trailing prose", reply: "7.8 because the pacing drags", want: 7.8},
		{name: "clamped high", reply: "11", want: 10},
		{name: "clamped low", reply: "-2", want: 0},
		{name: "empty", reply: "", wantErr: true},
		{name: "no number", reply: "excellent work", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseScore(tc.reply)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.reply)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseScore(%q) failed: %v", tc.reply, err)
			}
			if got != tc.want {
				t.Fatalf("parseScore(%q) = %.2f, want %.2f", tc.reply, got, tc.want)
			}
		})
	}
}

func TestNewOpenAIBackendValidation(t *testing.T) {
	if _, err := NewOpenAIBackend("gpt-4", "", "", 0); err == nil {
		t.Fatal("expected error for missing api key")
	}
	if _, err := NewOpenAIBackend("", "sk-test", "", 0); err == nil {
		t.Fatal("expected error for missing model")
	}
	if _, err := NewOpenAIBackend("gpt-4", "sk-test", "http://localhost:9999/v1", time.Minute); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestMockBackendPassesQualityBar(t *testing.T) {
	m := NewMockBackend()
	ctx := context.Background()

	out, err := m.Generate(ctx, prompts.ForStage(domain.StageWriter, "an outline"))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if out == "" {
		t.Fatal("expected non-empty output")
	}

	score, err := m.Evaluate(ctx, domain.StageWriter, out)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if score < 9.5 {
		t.Fatalf("mock score must clear the quality bar, got %.1f", score)
	}
}

func TestNewBackendModeSelection(t *testing.T) {
	t.Setenv(EnvInkwellMode, ModeMock)
	b, err := NewBackend("", "", "", 0)
	if err != nil {
		t.Fatalf("NewBackend failed in mock mode: %v", err)
	}
	if _, ok := b.(*MockBackend); !ok {
		t.Fatalf("expected MockBackend, got %T", b)
	}

	t.Setenv(EnvInkwellMode, "")
	if _, err := NewBackend("gpt-4", "", "", 0); err == nil {
		t.Fatal("expected error without api key outside mock mode")
	}
}
