package metrics

import (
	"context"
	"log/slog"
	"time"
)

// Service is the in-process MetricsService.
type Service struct {
	aggregator *Aggregator
	retention  time.Duration
}

// NewService creates a metrics service that keeps buckets for retention.
// retention <= 0 keeps everything.
func NewService(retention time.Duration) *Service {
	return &Service{
		aggregator: NewAggregator(),
		retention:  retention,
	}
}

func (s *Service) RecordAttempt(_ context.Context, outcome string, latency time.Duration) {
	s.aggregator.RecordAttempt(outcome, latency)
}

func (s *Service) RecordJudgeCall(_ context.Context, judge string, latency time.Duration, success bool) {
	s.aggregator.RecordJudgeCall(judge, latency, success)
}

func (s *Service) GetStats(_ context.Context, timeRange TimeRange) (*TrainingMetrics, error) {
	if s.retention > 0 {
		if n := s.aggregator.Prune(s.aggregator.now().Add(-s.retention)); n > 0 {
			slog.Debug("pruned metric buckets", "count", n)
		}
	}
	return s.aggregator.Stats(timeRange), nil
}

var _ MetricsService = (*Service)(nil)
