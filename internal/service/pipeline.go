package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/inkwell/orchestrator/internal/domain"
	"github.com/inkwell/orchestrator/internal/prompts"
)

// runPipeline drives one generation run to a terminal state. It owns the
// RunState exclusively; every mutation is followed by a snapshot publish.
//
// Stage transitions: outliner -> writer; writer below threshold routes
// through the editor; critic below threshold routes back to the editor.
// Re-edit cycles share one run-level pass counter capped at EditPassCap;
// exhausting the cap accepts the current content rather than failing.
func (s *Service) runPipeline(runID string, book *domain.Book) {
	ctx := context.Background()
	state := domain.NewRunState(runID, book.BookID)
	started := time.Now()

	s.publish(state)

	outline, _, err := s.runStage(ctx, state, domain.StageOutliner, prompts.InitialInput(prompts.SpecFromBook(book)))
	if err != nil {
		s.failRun(ctx, state, domain.StageOutliner, err)
		return
	}

	draft, writerScore, err := s.runStage(ctx, state, domain.StageWriter, outline)
	if err != nil {
		s.failRun(ctx, state, domain.StageWriter, err)
		return
	}

	content := draft
	editPasses := 0

	if writerScore < s.config.QualityThreshold {
		content, err = s.editContent(ctx, state, content, &editPasses)
		if err != nil {
			s.failRun(ctx, state, domain.StageEditor, err)
			return
		}
	}

	for {
		_, criticScore, err := s.runStage(ctx, state, domain.StageCritic, content)
		if err != nil {
			s.failRun(ctx, state, domain.StageCritic, err)
			return
		}
		if criticScore >= s.config.QualityThreshold || editPasses >= s.config.EditPassCap {
			break
		}
		content, err = s.editContent(ctx, state, content, &editPasses)
		if err != nil {
			s.failRun(ctx, state, domain.StageEditor, err)
			return
		}
	}

	s.track(ctx, state, state.CurrentStage, domain.MetricGenerationTime, time.Since(started).Seconds(), "")
	s.completeRun(ctx, state, outline, content)
}

// editContent runs the editor over content until it clears the quality
// threshold or the run's edit-pass budget is spent. The editor re-invoking
// itself on a low score consumes passes from the same budget.
func (s *Service) editContent(ctx context.Context, state *domain.RunState, content string, passes *int) (string, error) {
	for *passes < s.config.EditPassCap {
		*passes++
		edited, score, err := s.runStage(ctx, state, domain.StageEditor, content)
		if err != nil {
			return "", err
		}
		content = edited
		if score >= s.config.QualityThreshold {
			break
		}
	}
	return content, nil
}

// completeRun persists the finished book, then publishes the terminal
// snapshot. The store write happens strictly before the publish so pollers
// that miss the stream still observe a consistent result.
func (s *Service) completeRun(ctx context.Context, state *domain.RunState, structure, content string) {
	state.Status = domain.RunStatusDone
	state.FinalContent = content

	doc, err := json.Marshal(domain.BookContent{
		Structure: structure,
		Content:   content,
		Quality:   state.Metrics,
	})
	if err != nil {
		log.Printf("ERROR: failed to marshal book content for %s: %v", state.BookID, err)
	} else if err := s.store.UpdateBookCompleted(ctx, state.BookID, doc); err != nil {
		log.Printf("ERROR: failed to persist completed book %s: %v", state.BookID, err)
	}

	s.publish(state)
	log.Printf("INFO: run %s for book %s completed (overall %.1f)", state.RunID, state.BookID, state.Metrics.OverallScore)
}

// failRun marks the run failed, persists the failure, then publishes the
// terminal snapshot.
func (s *Service) failRun(ctx context.Context, state *domain.RunState, stage domain.StageKind, cause error) {
	state.Status = domain.RunStatusFailed
	state.FailureReason = string(stage) + " stage failed: " + cause.Error()

	if err := s.store.UpdateBookFailed(ctx, state.BookID, state.FailureReason); err != nil {
		log.Printf("ERROR: failed to persist failed book %s: %v", state.BookID, err)
	}

	s.publish(state)
	log.Printf("ERROR: run %s for book %s failed: %v", state.RunID, state.BookID, cause)
}

// publish hands a deep-copied snapshot to the event bus.
func (s *Service) publish(state *domain.RunState) {
	s.bus.Publish(state.BookID, state.Snapshot())
}
