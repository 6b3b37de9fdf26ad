package service

import (
	"context"
	"time"

	"github.com/inkwell/orchestrator/internal/domain"
	"github.com/inkwell/orchestrator/internal/prompts"
)

const outputSnippetLen = 280

// runStage executes one stage end-to-end: cache lookup, generation with
// retry on miss, state updates, write-through, and a snapshot publish after
// every state change. The critic evaluates only, so it bypasses the cache
// and returns its input unchanged.
func (s *Service) runStage(ctx context.Context, state *domain.RunState, stage domain.StageKind, input string) (string, float64, error) {
	sp := state.Stages[stage]
	state.CurrentStage = stage
	sp.Status = domain.StageStatusRunning
	sp.Progress = 0
	sp.Attempt = 0
	sp.BackoffDelay = 0
	s.publish(state)

	if stage != domain.StageCritic {
		if output, score, ok := s.cache.Get(ctx, input, stage); ok {
			sp.Status = domain.StageStatusCompleted
			sp.Progress = 100
			sp.Score = &score
			sp.Output = snippet(output)
			sp.FromCache = true
			s.setMetric(state, stage, score)
			s.track(ctx, state, stage, domain.MetricCacheHit, 1, "")
			s.publish(state)
			return output, score, nil
		}
		s.track(ctx, state, stage, domain.MetricCacheMiss, 1, "")
	}

	op := func(ctx context.Context) (string, float64, error) {
		output := input
		if stage != domain.StageCritic {
			generated, err := s.backend.Generate(ctx, prompts.ForStage(stage, input))
			if err != nil {
				return "", 0, err
			}
			output = generated
		}
		score, err := s.backend.Evaluate(ctx, stage, output)
		if err != nil {
			return "", 0, err
		}
		return output, score, nil
	}

	started := time.Now()
	output, score, err := s.executor.Do(ctx, op, func(attempt int, delay time.Duration) {
		sp.Status = domain.StageStatusRetrying
		sp.Progress = 0
		sp.Attempt = attempt
		sp.MaxAttempts = s.executor.MaxAttempts
		sp.BackoffDelay = delay.Seconds()
		s.publish(state)
	})
	if err != nil {
		sp.Status = domain.StageStatusFailed
		s.track(ctx, state, stage, domain.MetricError, -1, err.Error())
		s.publish(state)
		return "", 0, err
	}

	sp.Status = domain.StageStatusCompleted
	sp.Progress = 100
	sp.Score = &score
	sp.Output = snippet(output)
	sp.FromCache = false
	s.setMetric(state, stage, score)
	s.track(ctx, state, stage, domain.MetricGenerationTime, time.Since(started).Seconds(), "")
	s.track(ctx, state, stage, domain.MetricQualityScore, score, "")

	if stage != domain.StageCritic {
		// Write-through; admission policy decides whether it sticks.
		s.cache.Put(ctx, input, stage, output, score)
	}

	s.publish(state)
	return output, score, nil
}

// setMetric records a stage score on its quality dimension.
func (s *Service) setMetric(state *domain.RunState, stage domain.StageKind, score float64) {
	switch stage {
	case domain.StageOutliner:
		state.Metrics.Structure = score
	case domain.StageWriter:
		state.Metrics.WritingQuality = score
	case domain.StageEditor:
		state.Metrics.TechnicalAspects = score
	case domain.StageCritic:
		state.Metrics.OverallScore = score
	}
}

func snippet(s string) string {
	if len(s) <= outputSnippetLen {
		return s
	}
	return s[:outputSnippetLen] + "..."
}
