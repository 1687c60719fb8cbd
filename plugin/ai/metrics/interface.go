// Package metrics aggregates attempt outcomes and judge calls of training sessions.
package metrics

import (
	"context"
	"time"
)

// MetricsService records training metrics.
type MetricsService interface {
	// RecordAttempt records one attempt outcome and how long the reply took.
	RecordAttempt(ctx context.Context, outcome string, latency time.Duration)

	// RecordJudgeCall records one call to an answer judge.
	RecordJudgeCall(ctx context.Context, judge string, latency time.Duration, success bool)

	// GetStats aggregates everything recorded within the range.
	GetStats(ctx context.Context, timeRange TimeRange) (*TrainingMetrics, error)
}

// TimeRange is an inclusive range of hour buckets. Zero bounds are open.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// TrainingMetrics is the aggregated view over a time range.
type TrainingMetrics struct {
	AttemptCount     int64                 `json:"attempt_count"`
	OutcomeCounts    map[string]int64      `json:"outcome_counts"`
	LatencyP50       time.Duration         `json:"latency_p50"`
	LatencyP95       time.Duration         `json:"latency_p95"`
	JudgeCalls       int64                 `json:"judge_calls"`
	JudgeSuccessRate float32               `json:"judge_success_rate"`
	JudgeStats       map[string]*JudgeStat `json:"judge_stats"`
}

// JudgeStat is the per-judge breakdown.
type JudgeStat struct {
	Count       int64         `json:"count"`
	SuccessRate float32       `json:"success_rate"`
	AvgLatency  time.Duration `json:"avg_latency"`
}
