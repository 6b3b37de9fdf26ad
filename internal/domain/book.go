package domain

import (
	"encoding/json"
	"time"
)

// Book is the persisted entity a generation run belongs to.
type Book struct {
	BookID         string          `json:"book_id"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Genre          string          `json:"genre"`
	TargetAudience string          `json:"target_audience"`
	Style          string          `json:"style"`
	Tone           string          `json:"tone"`
	Length         string          `json:"length"`
	Status         BookStatus      `json:"status"`
	Content        json.RawMessage `json:"content,omitempty"`
	Error          string          `json:"error,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// BookContent is the JSON document stored on a completed book.
type BookContent struct {
	Structure string         `json:"structure"`
	Content   string         `json:"content"`
	Quality   QualityMetrics `json:"quality"`
}

// AnalyticsEvent is one recorded pipeline metric. Bookkeeping only; nothing
// in the pipeline reads these back.
type AnalyticsEvent struct {
	EventID string     `json:"event_id"`
	BookID  string     `json:"book_id"`
	RunID   string     `json:"run_id"`
	Stage   StageKind  `json:"stage"`
	Metric  MetricType `json:"metric"`
	Value   float64    `json:"value"`
	Detail  string     `json:"detail,omitempty"`
	Ts      int64      `json:"ts"`
}
