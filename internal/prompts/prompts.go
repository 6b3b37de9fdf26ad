// Package prompts builds the per-stage prompts. Pure formatting; the
// orchestrator never inspects prompt content.
package prompts

import (
	"fmt"
	"strings"

	"github.com/inkwell/orchestrator/internal/domain"
)

// Prompt is a system+user message pair for one backend call.
type Prompt struct {
	System string
	User   string
}

// BookSpec carries the user-facing parameters of the book being generated.
type BookSpec struct {
	Title          string
	Description    string
	Genre          string
	TargetAudience string
	Style          string
	Tone           string
	Length         string
}

// SpecFromBook extracts the prompt-relevant fields of a book.
func SpecFromBook(b *domain.Book) BookSpec {
	return BookSpec{
		Title:          b.Title,
		Description:    b.Description,
		Genre:          b.Genre,
		TargetAudience: b.TargetAudience,
		Style:          b.Style,
		Tone:           b.Tone,
		Length:         b.Length,
	}
}

// InitialInput renders the book spec into the text that seeds the pipeline.
// This is also the cache-fingerprint input of the outliner stage.
func InitialInput(spec BookSpec) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Title: %s\n", spec.Title)
	fmt.Fprintf(&sb, "Description: %s\n", spec.Description)
	fmt.Fprintf(&sb, "Genre: %s\n", spec.Genre)
	fmt.Fprintf(&sb, "Target audience: %s\n", spec.TargetAudience)
	fmt.Fprintf(&sb, "Style: %s\n", spec.Style)
	fmt.Fprintf(&sb, "Tone: %s\n", spec.Tone)
	fmt.Fprintf(&sb, "Length: %s\n", spec.Length)
	return sb.String()
}

// ForStage builds the generation prompt for a stage given its input text.
func ForStage(stage domain.StageKind, input string) Prompt {
	switch stage {
	case domain.StageOutliner:
		return Prompt{
			System: "You are an expert book outliner. Create a detailed chapter-by-chapter outline with character arcs and plot points.",
			User:   input,
		}
	case domain.StageWriter:
		return Prompt{
			System: "You are a master writer. Transform this outline into engaging prose with rich descriptions and natural dialogue.",
			User:   input,
		}
	case domain.StageEditor:
		return Prompt{
			System: "You are a meticulous editor. Refine this text for perfect pacing, consistency, and style.",
			User:   input,
		}
	default:
		return Prompt{User: input}
	}
}

// ForEvaluation builds the scoring prompt for a stage's output. The model
// is asked for a single 0-10 number.
func ForEvaluation(stage domain.StageKind, text string) Prompt {
	var system string
	switch stage {
	case domain.StageOutliner:
		system = "You are a literary critic. Evaluate this outline's structure on a scale of 0-10. Reply with only the number."
	case domain.StageWriter:
		system = "You are a writing quality assessor. Rate this text's writing quality on a scale of 0-10. Reply with only the number."
	case domain.StageEditor:
		system = "You are a technical editor. Rate the technical aspects of this text on a scale of 0-10. Reply with only the number."
	case domain.StageCritic:
		system = "You are a demanding literary critic. Rate this book overall on a scale of 0-10. Reply with only the number."
	}
	return Prompt{System: system, User: text}
}
