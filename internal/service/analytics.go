package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell/orchestrator/internal/domain"
)

// track records one analytics event. Bookkeeping only: failures are logged
// and never surface to the pipeline.
func (s *Service) track(ctx context.Context, state *domain.RunState, stage domain.StageKind, metric domain.MetricType, value float64, detail string) {
	event := &domain.AnalyticsEvent{
		EventID: "ae_" + uuid.New().String()[:8],
		BookID:  state.BookID,
		RunID:   state.RunID,
		Stage:   stage,
		Metric:  metric,
		Value:   value,
		Detail:  detail,
		Ts:      time.Now().UnixMilli(),
	}
	if err := s.store.CreateAnalyticsEvent(ctx, event); err != nil {
		log.Printf("WARN: failed to record %s analytics event: %v", metric, err)
	}
}
