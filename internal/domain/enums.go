// Package domain defines the core domain models for the orchestrator.
package domain

// StageKind identifies one of the four pipeline stages.
type StageKind string

const (
	StageOutliner StageKind = "outliner"
	StageWriter   StageKind = "writer"
	StageEditor   StageKind = "editor"
	StageCritic   StageKind = "critic"
)

// Stages lists the pipeline stages in their nominal execution order.
var Stages = []StageKind{StageOutliner, StageWriter, StageEditor, StageCritic}

// StageStatus represents the status of a single stage within a run.
type StageStatus string

const (
	StageStatusWaiting   StageStatus = "waiting"
	StageStatusRunning   StageStatus = "running"
	StageStatusRetrying  StageStatus = "retrying"
	StageStatusCompleted StageStatus = "completed"
	StageStatusFailed    StageStatus = "failed"
)

// BookStatus represents the lifecycle status of a book.
type BookStatus string

const (
	BookStatusDraft      BookStatus = "draft"
	BookStatusGenerating BookStatus = "generating"
	BookStatusCompleted  BookStatus = "completed"
	BookStatusFailed     BookStatus = "failed"
)

// RunStatus represents the status of a generation run.
type RunStatus string

const (
	RunStatusRunning RunStatus = "running"
	RunStatusDone    RunStatus = "done"
	RunStatusFailed  RunStatus = "failed"
)

// MetricType classifies analytics events recorded during a run.
type MetricType string

const (
	MetricCacheHit       MetricType = "cache_hit"
	MetricCacheMiss      MetricType = "cache_miss"
	MetricGenerationTime MetricType = "generation_time"
	MetricQualityScore   MetricType = "quality_score"
	MetricError          MetricType = "error"
)
