package domain

// StageProgress tracks one stage of a run. Progress is 0-100; Score, when
// set, is on the 0-10 scale used by the evaluators.
type StageProgress struct {
	Stage        StageKind   `json:"stage"`
	Status       StageStatus `json:"status"`
	Progress     float64     `json:"progress"`
	Score        *float64    `json:"score,omitempty"`
	Output       string      `json:"output,omitempty"`
	Attempt      int         `json:"attempt,omitempty"`
	MaxAttempts  int         `json:"max_attempts,omitempty"`
	BackoffDelay float64     `json:"backoff_delay,omitempty"`
	FromCache    bool        `json:"from_cache,omitempty"`
}

// QualityMetrics is the per-dimension score rollup for a run. Each stage
// owns one dimension: outliner/structure, writer/writing_quality,
// editor/technical_aspects, critic/overall_score.
type QualityMetrics struct {
	Structure        float64 `json:"structure"`
	WritingQuality   float64 `json:"writing_quality"`
	TechnicalAspects float64 `json:"technical_aspects"`
	OverallScore     float64 `json:"overall_score"`
}

// RunState is the live state of one generation run. It is owned by the
// orchestrator goroutine driving the run; everything handed to subscribers
// is a snapshot copy.
type RunState struct {
	RunID         string                       `json:"run_id"`
	BookID        string                       `json:"book_id"`
	Status        RunStatus                    `json:"status"`
	CurrentStage  StageKind                    `json:"current_stage"`
	Stages        map[StageKind]*StageProgress `json:"stages"`
	Metrics       QualityMetrics               `json:"metrics"`
	FinalContent  string                       `json:"final_content,omitempty"`
	FailureReason string                       `json:"failure_reason,omitempty"`
}

// NewRunState creates a run with all stages waiting.
func NewRunState(runID, bookID string) *RunState {
	stages := make(map[StageKind]*StageProgress, len(Stages))
	for _, kind := range Stages {
		stages[kind] = &StageProgress{Stage: kind, Status: StageStatusWaiting}
	}
	return &RunState{
		RunID:        runID,
		BookID:       bookID,
		Status:       RunStatusRunning,
		CurrentStage: StageOutliner,
		Stages:       stages,
	}
}

// Snapshot returns a deep copy safe to hand to the event bus.
func (r *RunState) Snapshot() *RunState {
	cp := *r
	cp.Stages = make(map[StageKind]*StageProgress, len(r.Stages))
	for kind, sp := range r.Stages {
		spCopy := *sp
		if sp.Score != nil {
			score := *sp.Score
			spCopy.Score = &score
		}
		cp.Stages[kind] = &spCopy
	}
	return &cp
}

// Terminal reports whether the run has reached a terminal status.
func (r *RunState) Terminal() bool {
	return r.Status == RunStatusDone || r.Status == RunStatusFailed
}
